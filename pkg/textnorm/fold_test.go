package textnorm

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe", Fold("  CAFÉ "))
	assert.Equal(t, "pina colada", Fold("Piña Colada"))
	assert.Equal(t, Fold("cafe"), Fold("Café"))
	assert.Equal(t, "", Fold("   "))
}

func TestTranslateTablesAlign(t *testing.T) {
	assert.Equal(t, utf8.RuneCountInString(Accented), utf8.RuneCountInString(Plain))
	plain := []rune(Plain)
	for i, r := range []rune(Accented) {
		assert.Equal(t, string(plain[i]), Fold(string(r)), "posición %d", i)
	}
}
