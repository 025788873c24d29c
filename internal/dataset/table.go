package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// Row to wiersz tabeli: nazwa kolumny -> tekst.
// Brak klucza = null (pusta komórka albo brak dopasowania w joinie).
type Row map[string]string

func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Value zwraca "" dla nulla.
func (r Row) Value(col string) string { return r[col] }

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table trzyma dane tekstowo, bez zgadywania typów.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Missing zwraca wszystkie brakujące kolumny, w kolejności z required.
func (t *Table) Missing(required []string) []string {
	var out []string
	for _, c := range required {
		if !t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Source opisuje jeden plik wejściowy.
// Delimiter == 0 oznacza autodetekcję z linii nagłówka.
type Source struct {
	Name      string
	Path      string
	Delimiter rune
	Required  []string
}

// SourceFile to metadane odczytanego pliku (do rejestru importów).
type SourceFile struct {
	Name   string
	Path   string
	SHA256 string
	Size   int64
	Rows   int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// kandydaci na separator, w kolejności rozstrzygania remisów
var delimiterCandidates = []rune{';', ',', '\t', '|'}

// readTable czyta plik CSV jako tekst. encoding to etykieta dla charset
// (np. "latin1"); plik z BOM UTF-8 jest czytany jako UTF-8 niezależnie od etykiety.
func readTable(src Source, encoding string) (*Table, SourceFile, error) {
	meta := SourceFile{Name: src.Name, Path: src.Path}

	raw, err := os.ReadFile(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, meta, &LoadError{Kind: MissingSourceFile, File: src.Path, Err: err}
		}
		return nil, meta, &LoadError{Kind: CorruptSource, File: src.Name, Err: err}
	}
	sum := sha256.Sum256(raw)
	meta.SHA256 = hex.EncodeToString(sum[:])
	meta.Size = int64(len(raw))

	text, err := decode(raw, encoding)
	if err != nil {
		return nil, meta, &LoadError{Kind: CorruptSource, File: src.Name, Err: err}
	}

	delim := src.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(firstLine(text))
	}

	t, err := parseCSV(src.Name, text, delim)
	if err != nil {
		return nil, meta, &LoadError{Kind: CorruptSource, File: src.Name, Err: err}
	}
	meta.Rows = len(t.Rows)
	return t, meta, nil
}

func decode(raw []byte, encoding string) (string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		return string(raw[len(utf8BOM):]), nil
	}
	if encoding == "" {
		encoding = "utf-8"
	}
	r, err := charset.NewReaderLabel(encoding, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("kodowanie %q: %w", encoding, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func parseCSV(name, text string, delim rune) (*Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true // cudzysłowy w nazwach produktów (np. 12" pizza)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: brak nagłówka", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: nagłówek: %w", name, err)
	}

	t := &Table{Name: name, Columns: normalizeHeader(header)}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(rec) > len(t.Columns) {
			return nil, fmt.Errorf("%s: wiersz %d: oczekiwano %d pól, jest %d", name, line, len(t.Columns), len(rec))
		}
		row := make(Row, len(rec))
		for i, v := range rec {
			if v == "" {
				continue // pusta komórka = null
			}
			row[t.Columns[i]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// normalizeHeader: trim + lower; powtórzone nazwy dostają sufiks ".N".
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		c := strings.ToLower(strings.TrimSpace(h))
		if n, dup := seen[c]; dup {
			seen[c] = n + 1
			c = fmt.Sprintf("%s.%d", c, n+1)
		} else {
			seen[c] = 0
		}
		out[i] = c
	}
	return out
}

func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}

// sniffDelimiter wybiera najczęstszego kandydata poza cudzysłowami.
// Bez żadnego kandydata zostaje przecinek.
func sniffDelimiter(line string) rune {
	counts := make(map[rune]int, len(delimiterCandidates))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		counts[r]++
	}
	best, bestN := ',', 0
	for _, c := range delimiterCandidates {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}
