package dataset

import (
	"sort"
	"strings"
	"time"

	"github.com/bartek5186/reposicion/internal/textnorm"
	"github.com/shopspring/decimal"
)

// format daty w ventas.csv (dzień/miesiąc/rok)
const salesDateLayout = "2/1/2006"

// Stock zwraca widok stock+almacen, ładując dane przy pierwszym dostępie.
func (l *Loader) Stock() ([]StockRecord, error) {
	v, err := l.Load()
	if err != nil {
		return nil, err
	}
	return v.Stock, nil
}

// Sales zwraca widok ventas+pedidos, ładując dane przy pierwszym dostępie.
func (l *Loader) Sales() ([]SalesRecord, error) {
	v, err := l.Load()
	if err != nil {
		return nil, err
	}
	return v.Sales, nil
}

// SearchStock szuka fragmentu w codigo bez rozróżniania wielkości liter.
// Pusty fragment nie zwraca nic.
func (l *Loader) SearchStock(fragment string) ([]StockRecord, error) {
	stock, err := l.Stock()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(fragment))
	if q == "" {
		return nil, nil
	}
	var out []StockRecord
	for _, r := range stock {
		if _, ok := r.Fields.Get(ColCodigo); !ok {
			continue
		}
		if strings.Contains(strings.ToLower(r.Codigo), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaleEntry to sprzedaż z rozparsowaną datą. DateOK == false: data nieczytelna.
type SaleEntry struct {
	SalesRecord
	Date   time.Time
	DateOK bool
}

// SalesHistory zwraca sprzedaż produktu (po znormalizowanej nazwie),
// od najnowszej; wiersze z nieczytelną datą na końcu, w kolejności widoku.
func (l *Loader) SalesHistory(displayName string) ([]SaleEntry, error) {
	sales, err := l.Sales()
	if err != nil {
		return nil, err
	}
	key := textnorm.Key(displayName)

	var out []SaleEntry
	for _, s := range sales {
		if s.ProductoNorm != key {
			continue
		}
		e := SaleEntry{SalesRecord: s}
		if d, err := time.Parse(salesDateLayout, strings.TrimSpace(s.Fecha)); err == nil {
			e.Date, e.DateOK = d, true
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DateOK != b.DateOK {
			return a.DateOK
		}
		return a.Date.After(b.Date)
	})
	return out, nil
}

// SalesSummary to podsumowanie historii sprzedaży produktu.
type SalesSummary struct {
	Sales        int
	Units        decimal.Decimal
	BadQuantity  int            // cantidad nieparsowalna, pominięta w Units
	ByEstado     map[string]int // "" = brak statusu zamówienia
	LastSaleDate time.Time
}

// SummarizeSales liczy sumę sztuk i rozkład statusów. Cantidad może mieć
// przecinek dziesiętny ("1,5").
func SummarizeSales(entries []SaleEntry) SalesSummary {
	sum := SalesSummary{Units: decimal.Zero, ByEstado: map[string]int{}}
	for _, e := range entries {
		sum.Sales++
		q := strings.ReplaceAll(strings.TrimSpace(e.Cantidad), ",", ".")
		if d, err := decimal.NewFromString(q); err == nil {
			sum.Units = sum.Units.Add(d)
		} else {
			sum.BadQuantity++
		}
		estado := ""
		if e.HasEstado {
			estado = e.Estado
		}
		sum.ByEstado[estado]++
		if e.DateOK && e.Date.After(sum.LastSaleDate) {
			sum.LastSaleDate = e.Date
		}
	}
	return sum
}
