// Package pending trzyma jedną oczekującą partię reposición w pliku JSON.
// Zapis nadpisuje poprzednią partię; w systemie jest najwyżej jedna.
package pending

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const FileName = "reposicion_pendiente.json"

// ErrNotFound: brak oczekującej partii.
var ErrNotFound = errors.New("no hay reposición pendiente")

// CorruptError: plik istnieje, ale nie jest niepustą listą pozycji.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s está dañado: %v", filepath.Base(e.Path), e.Err)
	}
	return fmt.Sprintf("%s está dañado", filepath.Base(e.Path))
}

func (e *CorruptError) Unwrap() error { return e.Err }

var errEmpty = errors.New("la reposición pendiente está vacía")

// ErrEmptyBatch: pustej partii nie zapisujemy, bo Load by jej nie przyjął.
var ErrEmptyBatch = errors.New("no hay productos para guardar en la reposición pendiente")

// Item to pozycja wybrana przez supervisora. CantidadReponer uzupełnia
// repositor przy zamknięciu partii.
type Item struct {
	Codigo          string `json:"codigo"`
	Producto        string `json:"producto"`
	Stock           string `json:"stock"`
	Picking         string `json:"picking"`
	Reposicion      string `json:"reposicion"`
	Observaciones   string `json:"observaciones"`
	CantidadReponer *int   `json:"cantidad_reponer,omitempty"`
}

type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

func (s *Store) Path() string { return s.path }

// Save zapisuje całą listę w podanej kolejności (temp + rename).
func (s *Store) Save(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyBatch
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("codificando reposición pendiente: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creando carpeta de reposición pendiente: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".pendiente-*.json")
	if err != nil {
		return fmt.Errorf("guardando reposición pendiente: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("guardando reposición pendiente: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("guardando reposición pendiente: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("guardando reposición pendiente: %w", err)
	}
	return nil
}

// Load zwraca partię albo ErrNotFound / *CorruptError.
func (s *Store) Load() ([]Item, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	if len(items) == 0 {
		return nil, &CorruptError{Path: s.path, Err: errEmpty}
	}
	return items, nil
}

func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Clear usuwa plik (best-effort). Zwraca false, jeśli plik nadal istnieje.
func (s *Store) Clear() bool {
	err := os.Remove(s.path)
	return err == nil || errors.Is(err, fs.ErrNotExist)
}
