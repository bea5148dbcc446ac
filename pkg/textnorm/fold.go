// Package textnorm normaliza texto para búsquedas sin mayúsculas ni acentos.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Accented y Plain son las tablas equivalentes para translate() en SQL.
const (
	Accented = "áàäâãéèëêíìïîóòöôõúùüûñç"
	Plain    = "aaaaaeeeeiiiiooooouuuunc"
)

// Fold normaliza s para comparar sin mayúsculas ni acentos ("Café" == "cafe").
// El Caser no es seguro entre goroutines, por eso se crea en cada llamada.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}
