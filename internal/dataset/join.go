package dataset

import (
	"fmt"
	"strings"
)

// sufiks dla kolumn prawej tabeli, które już istnieją po lewej
const collisionSuffix = "_almacen"

type joinSpec struct {
	leftKey  string
	rightKey string
	// take: kolumny z prawej tabeli do dołączenia; nil = wszystkie poza kluczem
	take []string
	// drop: kolumny prawej tabeli pomijane przed joinem
	drop []string
	// suffix dla kolizji nazw
	suffix string
}

type joinStats struct {
	matched    int
	duplicates int    // wiersze prawej tabeli z powtórzonym kluczem (ignorowane)
	hit        []bool // równoległe do wierszy wyniku
}

// leftJoin łączy tabele jak LEFT JOIN: każdy wiersz lewej tabeli zostaje,
// bez dopasowania dołączone kolumny są null. Przy powtórzonym kluczu po
// prawej wygrywa pierwszy wiersz, więc liczba wierszy się nie mnoży.
func leftJoin(left, right *Table, spec joinSpec) (*Table, joinStats, error) {
	var st joinStats
	if !left.HasColumn(spec.leftKey) {
		return nil, st, fmt.Errorf("%s: brak klucza %q", left.Name, spec.leftKey)
	}
	if !right.HasColumn(spec.rightKey) {
		return nil, st, fmt.Errorf("%s: brak klucza %q", right.Name, spec.rightKey)
	}

	dropped := make(map[string]bool, len(spec.drop))
	for _, c := range spec.drop {
		dropped[c] = true
	}

	take := spec.take
	if take == nil {
		for _, c := range right.Columns {
			if c != spec.rightKey {
				take = append(take, c)
			}
		}
	}
	// kolumna z prawej -> nazwa w wyniku
	rename := make(map[string]string, len(take))
	var cols []string
	cols = append(cols, left.Columns...)
	for _, c := range take {
		if dropped[c] {
			continue
		}
		if !right.HasColumn(c) {
			return nil, st, fmt.Errorf("%s: brak kolumny %q", right.Name, c)
		}
		if c == spec.rightKey && spec.leftKey == spec.rightKey {
			continue // wspólny klucz zostaje jedną kolumną
		}
		out := c
		if left.HasColumn(c) {
			out = c + spec.suffix
		}
		rename[c] = out
		cols = append(cols, out)
	}

	index := make(map[string]Row, len(right.Rows))
	for _, r := range right.Rows {
		k, ok := r.Get(spec.rightKey)
		if !ok {
			continue // null w kluczu niczego nie dopasuje
		}
		if _, seen := index[k]; seen {
			st.duplicates++
			continue
		}
		index[k] = r
	}

	out := &Table{Name: left.Name + "+" + right.Name, Columns: cols, Rows: make([]Row, 0, len(left.Rows))}
	st.hit = make([]bool, len(left.Rows))
	for i, lr := range left.Rows {
		row := lr.clone()
		if k, ok := lr.Get(spec.leftKey); ok {
			if rr, hit := index[k]; hit {
				st.matched++
				st.hit[i] = true
				for src, dst := range rename {
					if v, ok := rr.Get(src); ok {
						row[dst] = v
					}
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, st, nil
}

// trimColumn przycina wartości kolumny w miejscu; null zostaje nullem.
func trimColumn(t *Table, col string) {
	for _, r := range t.Rows {
		if v, ok := r[col]; ok {
			r[col] = strings.TrimSpace(v)
		}
	}
}
