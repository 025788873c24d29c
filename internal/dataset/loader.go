// Package dataset ładuje cztery eksporty CSV (stock, almacen, ventas,
// pedidos), waliduje je i buduje dwa widoki robocze: stock z lokalizacjami
// i sprzedaż ze statusem przygotowania zamówienia.
package dataset

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bartek5186/reposicion/internal/textnorm"
	"github.com/rs/zerolog"
)

// nazwy plików w katalogu danych
const (
	FileStock   = "stock.csv"
	FileAlmacen = "almacen.csv"
	FileVentas  = "ventas.csv"
	FilePedidos = "TodoslosPedidos.csv"
)

var (
	requiredStock   = []string{ColCodigo, ColProducto, ColStock}
	requiredAlmacen = []string{ColCodigo}
	requiredVentas  = []string{ColComprobante, ColProducto, ColCantidad, ColCodigo, ColFecha}
	requiredPedidos = []string{ColNumeroPedido, ColEstado}
)

type Paths struct {
	Stock   string
	Almacen string
	Ventas  string
	Pedidos string
}

// DefaultPaths zwraca ścieżki plików źródłowych w katalogu danych.
func DefaultPaths(dir string) Paths {
	return Paths{
		Stock:   filepath.Join(dir, FileStock),
		Almacen: filepath.Join(dir, FileAlmacen),
		Ventas:  filepath.Join(dir, FileVentas),
		Pedidos: filepath.Join(dir, FilePedidos),
	}
}

// Auditor dostaje informację o każdym wczytanym (lub nie) pliku źródłowym.
// Błędy audytu nie przerywają ładowania.
type Auditor interface {
	SourceLoaded(f SourceFile) error
	SourceFailed(name, path string, cause error) error
}

// Views to komplet widoków z jednego udanego ładowania. Tylko do odczytu.
type Views struct {
	Stock    []StockRecord
	Sales    []SalesRecord
	LoadedAt time.Time
}

type Option func(*Loader)

func WithLogger(log zerolog.Logger) Option { return func(l *Loader) { l.log = log } }

// WithEncoding ustawia kodowanie plików źródłowych (domyślnie latin1).
func WithEncoding(label string) Option { return func(l *Loader) { l.encoding = label } }

func WithAuditor(a Auditor) Option { return func(l *Loader) { l.auditor = a } }

func WithClock(now func() time.Time) Option { return func(l *Loader) { l.now = now } }

// Loader to leniwie inicjalizowany serwis z cache widoków.
// Po pierwszym udanym Load pliki nie są czytane ponownie aż do Reload.
type Loader struct {
	paths    Paths
	encoding string
	log      zerolog.Logger
	auditor  Auditor
	now      func() time.Time

	mu    sync.Mutex
	views *Views
	reads int // ile razy faktycznie czytano pliki
}

func NewLoader(paths Paths, opts ...Option) *Loader {
	l := &Loader{
		paths:    paths,
		encoding: "latin1",
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load zwraca widoki z cache albo ładuje je przy pierwszym wywołaniu.
func (l *Loader) Load() (*Views, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.views != nil {
		return l.views, nil
	}
	return l.loadLocked()
}

// Reload wymusza ponowne wczytanie plików. Przy błędzie poprzedni cache zostaje.
func (l *Loader) Reload() (*Views, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.views != nil
}

// Reads mówi, ile razy pliki źródłowe zostały faktycznie przeczytane.
func (l *Loader) Reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

func (l *Loader) loadLocked() (*Views, error) {
	l.reads++
	v, err := l.build()
	if err != nil {
		l.log.Error().Err(err).Msg("error cargando datos")
		return nil, err
	}
	l.views = v
	l.log.Info().
		Int("stock", len(v.Stock)).
		Int("ventas", len(v.Sales)).
		Msg("datos cargados")
	return v, nil
}

// build nie dotyka cache; wszystko albo nic.
func (l *Loader) build() (*Views, error) {
	sources := []Source{
		{Name: FileStock, Path: l.paths.Stock, Delimiter: ';', Required: requiredStock},
		{Name: FileAlmacen, Path: l.paths.Almacen, Delimiter: ';', Required: requiredAlmacen},
		{Name: FileVentas, Path: l.paths.Ventas, Delimiter: ';', Required: requiredVentas},
		{Name: FilePedidos, Path: l.paths.Pedidos, Delimiter: 0, Required: requiredPedidos},
	}

	// audyt "ok" dopiero po udanym całym ładowaniu
	fail := func(err error, failed ...Source) error {
		for _, src := range failed {
			l.audit(func(a Auditor) error { return a.SourceFailed(src.Name, src.Path, err) })
		}
		return err
	}

	tables := make([]*Table, len(sources))
	metas := make([]SourceFile, len(sources))
	for i, src := range sources {
		t, meta, err := readTable(src, l.encoding)
		if err != nil {
			return nil, fail(err, src)
		}
		tables[i], metas[i] = t, meta
	}

	for i, src := range sources {
		if missing := tables[i].Missing(src.Required); len(missing) > 0 {
			return nil, fail(&LoadError{Kind: SchemaViolation, File: src.Name, Columns: missing}, src)
		}
	}
	stock, almacen, ventas, pedidos := tables[0], tables[1], tables[2], tables[3]

	if err := addNormColumn(stock); err != nil {
		return nil, fail(err, sources[0])
	}
	if err := addNormColumn(ventas); err != nil {
		return nil, fail(err, sources[2])
	}

	stock, dupStock := dedupeByKey(stock, ColCodigo)
	if dupStock > 0 {
		l.log.Warn().Int("ignorados", dupStock).Msg("stock.csv: codigo repetido, se conserva la primera fila")
	}

	stockView, stStock, err := leftJoin(stock, almacen, joinSpec{
		leftKey:  ColCodigo,
		rightKey: ColCodigo,
		drop:     []string{ColProducto},
		suffix:   collisionSuffix,
	})
	if err != nil {
		return nil, fail(&LoadError{Kind: JoinFailure, File: FileStock + " con " + FileAlmacen, Err: err}, sources[0], sources[1])
	}
	if stStock.duplicates > 0 {
		l.log.Warn().Int("ignorados", stStock.duplicates).Msg("almacen.csv: codigo repetido, se usa la primera ubicación")
	}

	trimColumn(pedidos, ColNumeroPedido)
	trimColumn(pedidos, ColEstado)
	trimColumn(ventas, ColComprobante)

	salesView, stSales, err := leftJoin(ventas, pedidos, joinSpec{
		leftKey:  ColComprobante,
		rightKey: ColNumeroPedido,
		take:     []string{ColNumeroPedido, ColEstado},
		suffix:   "_pedido",
	})
	if err != nil {
		return nil, fail(&LoadError{Kind: JoinFailure, File: FileVentas + " con " + FilePedidos, Err: err}, sources[2], sources[3])
	}
	if stSales.duplicates > 0 {
		l.log.Warn().Int("ignorados", stSales.duplicates).Msg("TodoslosPedidos.csv: pedido repetido, se usa el primero")
	}

	l.log.Debug().
		Int("con_ubicacion", stStock.matched).
		Int("con_estado", stSales.matched).
		Msg("uniones completas")

	for _, meta := range metas {
		l.audit(func(a Auditor) error { return a.SourceLoaded(meta) })
	}

	return &Views{
		Stock:    stockRecords(stockView, stStock.hit),
		Sales:    salesRecords(salesView, stSales.hit),
		LoadedAt: l.now(),
	}, nil
}

func (l *Loader) audit(fn func(Auditor) error) {
	if l.auditor == nil {
		return
	}
	if err := fn(l.auditor); err != nil {
		l.log.Warn().Err(err).Msg("registro de importación falló")
	}
}

func addNormColumn(t *Table) error {
	for i, r := range t.Rows {
		n, err := textnorm.Normalize(r.Value(ColProducto))
		if err != nil {
			return &LoadError{Kind: NormalizationFailure, File: t.Name, Err: fmtRow(i, err)}
		}
		r[ColProductoNorm] = n
	}
	if !t.HasColumn(ColProductoNorm) {
		t.Columns = append(t.Columns, ColProductoNorm)
	}
	return nil
}

// dedupeByKey zostawia pierwszy wiersz dla każdego klucza.
// Wiersze z null w kluczu zostają wszystkie.
func dedupeByKey(t *Table, key string) (*Table, int) {
	seen := make(map[string]bool, len(t.Rows))
	out := &Table{Name: t.Name, Columns: t.Columns, Rows: make([]Row, 0, len(t.Rows))}
	dups := 0
	for _, r := range t.Rows {
		if k, ok := r.Get(key); ok {
			if seen[k] {
				dups++
				continue
			}
			seen[k] = true
		}
		out.Rows = append(out.Rows, r)
	}
	return out, dups
}

func fmtRow(i int, err error) error {
	return fmt.Errorf("fila %d: %w", i+2, err)
}
