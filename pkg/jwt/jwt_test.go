package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-para-tests"

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "Cajero 1", "pos-ledger", 60)
	require.NoError(t, err)

	claims, err := Parse(testSecret, "pos-ledger", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Cajero 1", claims.Name)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "", "pos-ledger", 60)
	require.NoError(t, err)

	_, err = Parse("otro-secret", "pos-ledger", token)
	assert.Error(t, err)
}

func TestParse_WrongIssuer(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "", "otro", 60)
	require.NoError(t, err)

	_, err = Parse(testSecret, "pos-ledger", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "", "pos-ledger", -1)
	require.NoError(t, err)

	_, err = Parse(testSecret, "pos-ledger", token)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", "", "pos-ledger", 60)
	assert.Error(t, err)
}
