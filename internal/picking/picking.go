// Package picking ustala kolejność obchodu magazynu po kodzie lokalizacji.
//
// Lokalizacje zaczynające się od cyfr idą pierwsze, liczbowo po prefiksie
// ("2" przed "10"), z pełnym kodem jako rozstrzygnięciem remisu. Reszta
// (litery, pusty kod) idzie potem, leksykograficznie.
package picking

import (
	"cmp"
	"slices"
	"strings"
)

const (
	TierNumeric = 0
	TierOther   = 1
)

// Key to klucz sortowania dla jednej lokalizacji.
type Key struct {
	Tier int
	// Digits to prefiks liczbowy bez zer wiodących ("" dla zera),
	// więc porównanie jest dokładne dla dowolnie długich prefiksów.
	Digits string
	Raw    string
}

// KeyOf buduje klucz z kodu lokalizacji (pole "picking"); kod jest przycinany.
func KeyOf(location string) Key {
	raw := strings.TrimSpace(location)
	n := 0
	for n < len(raw) && raw[n] >= '0' && raw[n] <= '9' {
		n++
	}
	if n == 0 {
		return Key{Tier: TierOther, Raw: raw}
	}
	return Key{Tier: TierNumeric, Digits: strings.TrimLeft(raw[:n], "0"), Raw: raw}
}

// Compare zwraca -1, 0 albo 1.
func Compare(a, b Key) int {
	if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
		return c
	}
	if a.Tier == TierNumeric {
		if c := cmp.Compare(len(a.Digits), len(b.Digits)); c != 0 {
			return c
		}
		if c := strings.Compare(a.Digits, b.Digits); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Raw, b.Raw)
}

// Less dla sort.Slice i podobnych.
func Less(a, b string) bool { return Compare(KeyOf(a), KeyOf(b)) < 0 }

// Sort sortuje stabilnie po lokalizacji zwracanej przez location.
func Sort[T any](items []T, location func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(KeyOf(location(a)), KeyOf(location(b)))
	})
}
