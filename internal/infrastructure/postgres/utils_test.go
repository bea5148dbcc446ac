package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrConflict},
		{codeSerializationFailure, domain.ErrConflict},
		{codeDeadlockDetected, domain.ErrConflict},
		{codeForeignKeyViolation, domain.ErrInvalidReference},
		{codeCheckViolation, domain.ErrInvalidInput},
		{codeInvalidTextRep, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: tc.code, Message: "boom"})
			assert.ErrorIs(t, mapError(err), tc.want)
		})
	}
}

func TestMapError_PassThrough(t *testing.T) {
	assert.NoError(t, mapError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, mapError(plain))

	other := &pgconn.PgError{Code: "57014"}
	assert.Equal(t, error(other), mapError(other))
}

func TestCodeHelpers(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
	assert.True(t, isInvalidText(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: codeInvalidTextRep})))
}
