// Package textnorm buduje klucze porównawcze dla nazw produktów,
// tak żeby warianty z akcentami i wielkością liter trafiały w ten sam rekord.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// wszystko spoza ASCII wylatuje (po NFKD to głównie znaki łączące)
var nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })

// Normalize: NFKD -> tylko ASCII -> trim -> lower.
// Wynik jest idempotentny: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) (string, error) {
	// Chain trzyma stan, więc budujemy go per wywołanie
	t := transform.Chain(norm.NFKD, runes.Remove(nonASCII))
	out, _, err := transform.String(t, s)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(out)), nil
}

// Key to wersja bez błędu dla zapytań (wyszukiwanie, historial).
func Key(s string) string {
	out, err := Normalize(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
