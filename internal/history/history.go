// Package history dopisuje zamknięte partie reposición do historycznego
// rejestru CSV. Rejestr jest tylko do dopisywania: wpisów się nie zmienia
// ani nie usuwa.
package history

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/bartek5186/reposicion/internal/pending"
)

const (
	FileName   = "historico_reposiciones.csv"
	DateLayout = "2006-01-02"
	// RoleRepositor to domyślna rola przy zamknięciu partii.
	RoleRepositor = "repositor"
)

// Columns to nagłówek rejestru: pola pozycji + fecha_registro + rol.
var Columns = []string{
	"codigo", "producto", "stock", "picking", "reposicion",
	"observaciones", "cantidad_reponer", "fecha_registro", "rol",
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Entry to jeden wiersz rejestru.
type Entry struct {
	pending.Item
	FechaRegistro string
	Rol           string
}

type Recorder struct {
	path string
	now  func() time.Time
}

type Option func(*Recorder)

func WithClock(now func() time.Time) Option { return func(r *Recorder) { r.now = now } }

func NewRecorder(path string, opts ...Option) *Recorder {
	r := &Recorder{path: path, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Recorder) Path() string { return r.path }

// Append dopisuje pozycje z dzisiejszą datą i rolą. Nagłówek (z BOM)
// trafia do pliku tylko przy jego utworzeniu. Dwa wywołania z tymi samymi
// danymi dają dwa wpisy.
func (r *Recorder) Append(items []pending.Item, role string) error {
	if len(items) == 0 {
		return nil
	}

	_, statErr := os.Stat(r.path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	var buf bytes.Buffer
	if fresh {
		buf.Write(bom)
	}
	w := csv.NewWriter(&buf)
	if fresh {
		if err := w.Write(Columns); err != nil {
			return err
		}
	}
	fecha := r.now().Format(DateLayout)
	for _, it := range items {
		cant := ""
		if it.CantidadReponer != nil {
			cant = strconv.Itoa(*it.CantidadReponer)
		}
		rec := []string{
			it.Codigo, it.Producto, it.Stock, it.Picking, it.Reposicion,
			it.Observaciones, cant, fecha, role,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("no se pudo guardar el histórico: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("no se pudo guardar el histórico: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("no se pudo guardar el histórico: %w", err)
	}
	return nil
}

// Entries czyta cały rejestr. Brak pliku = pusta lista.
func (r *Recorder) Entries() ([]Entry, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, bom)

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("histórico: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	get := func(rec []string, col string) string {
		if i, ok := idx[col]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var out []Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("histórico: %w", err)
		}
		e := Entry{
			Item: pending.Item{
				Codigo:        get(rec, "codigo"),
				Producto:      get(rec, "producto"),
				Stock:         get(rec, "stock"),
				Picking:       get(rec, "picking"),
				Reposicion:    get(rec, "reposicion"),
				Observaciones: get(rec, "observaciones"),
			},
			FechaRegistro: get(rec, "fecha_registro"),
			Rol:           get(rec, "rol"),
		}
		if n, err := strconv.Atoi(get(rec, "cantidad_reponer")); err == nil {
			e.CantidadReponer = &n
		}
		out = append(out, e)
	}
	return out, nil
}
