// Package replenish to rdzeń obu ról: supervisor wybiera pozycje i zapisuje
// partię w kolejności picking, repositor wpisuje ilości i zamyka partię
// do rejestru historycznego.
package replenish

import (
	"errors"
	"fmt"

	"github.com/bartek5186/reposicion/internal/dataset"
	"github.com/bartek5186/reposicion/internal/history"
	"github.com/bartek5186/reposicion/internal/pending"
	"github.com/bartek5186/reposicion/internal/picking"
	"github.com/rs/zerolog"
)

var ErrEmptySelection = errors.New("no hay productos seleccionados")

type PendingStore interface {
	Save(items []pending.Item) error
	Load() ([]pending.Item, error)
	Clear() bool
}

type Ledger interface {
	Append(items []pending.Item, role string) error
}

// NewItem przepisuje rekord widoku stock do pozycji partii.
func NewItem(rec dataset.StockRecord, observaciones string) pending.Item {
	return pending.Item{
		Codigo:        rec.Codigo,
		Producto:      rec.Producto,
		Stock:         rec.Stock,
		Picking:       rec.Picking,
		Reposicion:    rec.Reposicion,
		Observaciones: observaciones,
	}
}

type selKey struct{ codigo, producto string }

// Selection to lista wybrana przez supervisora, w kolejności dodawania.
// Para (codigo, producto) trafia tylko raz.
type Selection struct {
	items []pending.Item
	seen  map[selKey]bool
}

func NewSelection() *Selection {
	return &Selection{seen: map[selKey]bool{}}
}

// Add zwraca false, jeśli pozycja już jest na liście.
func (s *Selection) Add(rec dataset.StockRecord, observaciones string) bool {
	k := selKey{rec.Codigo, rec.Producto}
	if s.seen[k] {
		return false
	}
	s.seen[k] = true
	s.items = append(s.items, NewItem(rec, observaciones))
	return true
}

func (s *Selection) Len() int { return len(s.items) }

func (s *Selection) Items() []pending.Item {
	out := make([]pending.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Selection) Reset() {
	s.items = nil
	s.seen = map[selKey]bool{}
}

type Supervisor struct {
	store PendingStore
	log   zerolog.Logger
}

func NewSupervisor(store PendingStore, log zerolog.Logger) *Supervisor {
	return &Supervisor{store: store, log: log}
}

// Finalize sortuje wybór po picking i zapisuje go jako partię oczekującą
// (nadpisując poprzednią).
func (s *Supervisor) Finalize(sel *Selection) ([]pending.Item, error) {
	if sel == nil || sel.Len() == 0 {
		return nil, ErrEmptySelection
	}
	items := sel.Items()
	picking.Sort(items, func(it pending.Item) string { return it.Picking })

	if err := s.store.Save(items); err != nil {
		s.log.Error().Err(err).Msg("error guardando reposición pendiente")
		return nil, fmt.Errorf("no se pudo guardar reposición pendiente: %w", err)
	}
	s.log.Info().Int("items", len(items)).Msg("supervisor guardó reposición pendiente")
	return items, nil
}

type Repositor struct {
	store  PendingStore
	ledger Ledger
	role   string
	log    zerolog.Logger
}

func NewRepositor(store PendingStore, ledger Ledger, log zerolog.Logger) *Repositor {
	return &Repositor{store: store, ledger: ledger, role: history.RoleRepositor, log: log}
}

// Pending zwraca partię do realizacji (pending.ErrNotFound / *pending.CorruptError).
func (r *Repositor) Pending() ([]pending.Item, error) {
	return r.store.Load()
}

// Finalize waliduje ilości (jedna na pozycję, w kolejności partii), dopisuje
// partię do rejestru i usuwa plik oczekujący. Przy błędzie walidacji nic
// nie jest zapisywane. Nieudane usunięcie pliku tylko logujemy.
func (r *Repositor) Finalize(values []string) ([]pending.Item, error) {
	items, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if len(values) != len(items) {
		return nil, fmt.Errorf("%w: se esperaban %d, hay %d", ErrQuantityCount, len(items), len(values))
	}
	qty, err := ParseQuantities(values)
	if err != nil {
		return nil, err
	}
	for i := range items {
		n := qty[i]
		items[i].CantidadReponer = &n
	}

	if err := r.ledger.Append(items, r.role); err != nil {
		r.log.Error().Err(err).Msg("error guardando histórico")
		return nil, err
	}
	if !r.store.Clear() {
		r.log.Warn().Msg("no se pudo eliminar la reposición pendiente")
	}
	r.log.Info().Int("items", len(items)).Msg("repositor finalizó el proceso")
	return items, nil
}
