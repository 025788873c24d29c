// Package export zapisuje partię reposición do formatów do druku lub
// dalszej edycji (xlsx, pdf). Formaty rejestrują się same w init.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bartek5186/reposicion/internal/pending"
)

// Sheet to dane jednego eksportu.
type Sheet struct {
	Title       string
	GeneratedAt time.Time
	Items       []pending.Item
}

type Exporter interface {
	Ext() string
	Write(w io.Writer, s Sheet) error
}

var (
	regMu    sync.RWMutex
	registry = map[string]Exporter{}
)

func Register(name string, e Exporter) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = e
}

func Get(name string) (Exporter, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// Names zwraca zarejestrowane formaty, alfabetycznie.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FileName: reposicion_20250502_0930.xlsx
func FileName(at time.Time, ext string) string {
	return "reposicion_" + at.Format("20060102_1504") + ext
}

// WriteFile eksportuje arkusz w formacie format do pliku path.
func WriteFile(format, path string, s Sheet) error {
	e, ok := Get(format)
	if !ok {
		return fmt.Errorf("formato de exportación desconocido: %q", format)
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("no hay productos para exportar")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.Write(f, s); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("error exportando %s: %w", format, err)
	}
	return f.Close()
}
