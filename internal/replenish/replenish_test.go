package replenish

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bartek5186/reposicion/internal/dataset"
	"github.com/bartek5186/reposicion/internal/history"
	"github.com/bartek5186/reposicion/internal/pending"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(codigo, producto, picking string) dataset.StockRecord {
	return dataset.StockRecord{Codigo: codigo, Producto: producto, Stock: "1", Picking: picking, Located: picking != ""}
}

func TestParseQuantities(t *testing.T) {
	cases := []struct {
		in     string
		want   int
		reason Reason
		ok     bool
	}{
		{"5", 5, 0, true},
		{"0", 0, 0, true},
		{" 7 ", 7, 0, true},
		{"-1", 0, ReasonNegative, false},
		{"", 0, ReasonEmpty, false},
		{"   ", 0, ReasonEmpty, false},
		{"abc", 0, ReasonNotInteger, false},
		{"2.5", 0, ReasonNotInteger, false},
	}
	for _, c := range cases {
		n, reason, ok := ParseQuantity(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.reason, reason, c.in)
		assert.Equal(t, c.want, n, c.in)
	}
}

func TestParseQuantitiesStopsAtFirstBadRow(t *testing.T) {
	got, err := ParseQuantities([]string{"5", "0"})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 0}, got)

	_, err = ParseQuantities([]string{"5", "0", "-1", "", "abc"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 3, ve.Row)
	assert.Equal(t, ReasonNegative, ve.Reason)

	_, err = ParseQuantities([]string{"5", ""})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ReasonEmpty, ve.Reason)
	assert.Contains(t, err.Error(), "fila 2")

	_, err = ParseQuantities([]string{"abc"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ReasonNotInteger, ve.Reason)
	assert.Contains(t, err.Error(), "'abc'")
}

func TestSelectionSkipsDuplicates(t *testing.T) {
	sel := NewSelection()
	assert.True(t, sel.Add(rec("A1", "Café", "2B"), "urgente"))
	assert.False(t, sel.Add(rec("A1", "Café", "2B"), "otra"))
	assert.True(t, sel.Add(rec("A1", "Café molido", "2B"), ""))
	assert.Equal(t, 2, sel.Len())
	assert.Equal(t, "urgente", sel.Items()[0].Observaciones)

	sel.Reset()
	assert.Equal(t, 0, sel.Len())
}

func newStores(t *testing.T) (*pending.Store, *history.Recorder) {
	dir := t.TempDir()
	return pending.NewStore(filepath.Join(dir, pending.FileName)),
		history.NewRecorder(filepath.Join(dir, history.FileName))
}

func TestSupervisorFinalizeSortsByPicking(t *testing.T) {
	store, _ := newStores(t)
	sup := NewSupervisor(store, zerolog.Nop())

	sel := NewSelection()
	for _, r := range []dataset.StockRecord{
		rec("X", "x", "10A"), rec("Y", "y", "2B"), rec("Z", "z", "B1"), rec("W", "w", "A1"), rec("V", "v", ""),
	} {
		sel.Add(r, "")
	}

	items, err := sup.Finalize(sel)
	require.NoError(t, err)

	var order []string
	for _, it := range items {
		order = append(order, it.Picking)
	}
	assert.Equal(t, []string{"2B", "10A", "", "A1", "B1"}, order)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, items, saved)
}

func TestSupervisorFinalizeEmpty(t *testing.T) {
	store, _ := newStores(t)
	_, err := NewSupervisor(store, zerolog.Nop()).Finalize(NewSelection())
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.False(t, store.Exists())
}

func TestRepositorFinalize(t *testing.T) {
	store, ledger := newStores(t)
	sel := NewSelection()
	sel.Add(rec("A1", "Café", "2B"), "")
	sel.Add(rec("C3", "Dulce", "10A"), "")
	_, err := NewSupervisor(store, zerolog.Nop()).Finalize(sel)
	require.NoError(t, err)

	rep := NewRepositor(store, ledger, zerolog.Nop())
	items, err := rep.Finalize([]string{"5", "0"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 5, *items[0].CantidadReponer)

	assert.False(t, store.Exists(), "partia zamknięta, plik usunięty")
	entries, err := ledger.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, history.RoleRepositor, entries[0].Rol)
	assert.Equal(t, 0, *entries[1].CantidadReponer)
}

func TestRepositorFinalizeValidationPersistsNothing(t *testing.T) {
	store, ledger := newStores(t)
	require.NoError(t, store.Save([]pending.Item{{Codigo: "A1"}, {Codigo: "B2"}}))

	rep := NewRepositor(store, ledger, zerolog.Nop())
	_, err := rep.Finalize([]string{"5", "-1"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, ve.Row)

	assert.True(t, store.Exists())
	entries, err := ledger.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = rep.Finalize([]string{"5"})
	assert.ErrorIs(t, err, ErrQuantityCount)
}

func TestRepositorFinalizeWithoutPending(t *testing.T) {
	store, ledger := newStores(t)
	_, err := NewRepositor(store, ledger, zerolog.Nop()).Finalize(nil)
	assert.ErrorIs(t, err, pending.ErrNotFound)
}

type failingLedger struct{}

func (failingLedger) Append([]pending.Item, string) error { return errors.New("disco lleno") }

type stickyStore struct {
	*pending.Store
}

func (stickyStore) Clear() bool { return false }

func TestRepositorFinalizeLedgerErrorKeepsPending(t *testing.T) {
	store, _ := newStores(t)
	require.NoError(t, store.Save([]pending.Item{{Codigo: "A1"}}))

	_, err := NewRepositor(store, failingLedger{}, zerolog.Nop()).Finalize([]string{"1"})
	require.Error(t, err)
	assert.True(t, store.Exists())
}

func TestRepositorFinalizeIgnoresClearFailure(t *testing.T) {
	store, ledger := newStores(t)
	require.NoError(t, store.Save([]pending.Item{{Codigo: "A1"}}))

	items, err := NewRepositor(stickyStore{store}, ledger, zerolog.Nop()).Finalize([]string{"3"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
