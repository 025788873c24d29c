package pending

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{Codigo: "A1", Producto: "Café Córdoba", Stock: "10", Picking: "2B", Reposicion: "R-01", Observaciones: "urgente"},
		{Codigo: "C3", Producto: "Dulce de Leche", Stock: "0", Picking: "10A", Reposicion: "R-02"},
		{Codigo: "B2", Producto: "Yerba Mate", Stock: "5"},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	items := sampleItems()

	require.NoError(t, s.Save(items))
	assert.True(t, s.Exists())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestSaveWritesReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s := NewStore(path)
	require.NoError(t, s.Save(sampleItems()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"codigo\": \"A1\""), text)
	assert.Contains(t, text, "Café Córdoba", "bez escapowania znaków spoza ASCII")
	assert.NotContains(t, text, "cantidad_reponer")
}

func TestSaveOverwritesPreviousBatch(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, s.Save(sampleItems()))
	require.NoError(t, s.Save(sampleItems()[:1]))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLoadWithQuantities(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	n := 4
	items := sampleItems()[:1]
	items[0].CantidadReponer = &n
	require.NoError(t, s.Save(items))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got[0].CantidadReponer)
	assert.Equal(t, 4, *got[0].CantidadReponer)
}

func TestLoadNotFound(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, s.Exists())
}

func TestLoadCorrupt(t *testing.T) {
	cases := map[string]string{
		"not json":  "{{{",
		"object":    `{"codigo": "A1"}`,
		"empty":     `[]`,
		"null":      `null`,
		"bad field": `[{"codigo": 5}]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := NewStore(path).Load()
			var ce *CorruptError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, err.Error(), FileName)
		})
	}
}

func TestClear(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, s.Save(sampleItems()))

	assert.True(t, s.Clear())
	assert.False(t, s.Exists())
	assert.True(t, s.Clear(), "brak pliku to też sukces")
}

func TestSaveRejectsEmptyBatch(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, s.Save(nil), ErrEmptyBatch)
	assert.ErrorIs(t, s.Save([]Item{}), ErrEmptyBatch)
	assert.False(t, s.Exists())
}

func TestSaveReportsFolderError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "plik")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewStore(filepath.Join(blocker, "sub", FileName)).Save(sampleItems())
	assert.ErrorContains(t, err, "creando carpeta")
}
