// Package console to terminalowa wersja okien supervisora i repositora:
// jedna komenda na linię, wynik na io.Writer.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bartek5186/reposicion/internal/dataset"
	"github.com/bartek5186/reposicion/internal/db"
	"github.com/bartek5186/reposicion/internal/export"
	"github.com/bartek5186/reposicion/internal/history"
	"github.com/bartek5186/reposicion/internal/pending"
	"github.com/bartek5186/reposicion/internal/replenish"
	"github.com/rs/zerolog"
)

// role sesji; pusta rola = obie
const (
	RoleSupervisor = "supervisor"
	RoleRepositor  = "repositor"
)

// SourceStatus to stan plików źródłowych z rejestru importów (opcjonalny).
type SourceStatus interface {
	Sources() ([]db.SourceFile, error)
	LastLoad() (time.Time, bool, error)
}

type Deps struct {
	Loader    *dataset.Loader
	Pending   *pending.Store
	History   *history.Recorder
	Sources   SourceStatus
	ExportDir string
	Role      string
	Log       zerolog.Logger
	Now       func() time.Time
}

type Session struct {
	d    Deps
	out  io.Writer
	sel  *replenish.Selection
	sup  *replenish.Supervisor
	rep  *replenish.Repositor
	last []dataset.StockRecord // wynik ostatniego "buscar"
}

func New(d Deps, out io.Writer) *Session {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Session{
		d:   d,
		out: out,
		sel: replenish.NewSelection(),
		sup: replenish.NewSupervisor(d.Pending, d.Log),
		rep: replenish.NewRepositor(d.Pending, d.History, d.Log),
	}
}

type command struct {
	role string // "" = dostępna dla obu
	help string
	run  func(s *Session, args string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"buscar":    {RoleSupervisor, "buscar <código> - busca productos por código", (*Session).buscar},
		"sel":       {RoleSupervisor, "sel <n> [observaciones] - agrega el resultado n a la lista", (*Session).seleccionar},
		"lista":     {RoleSupervisor, "lista - muestra la lista seleccionada", (*Session).lista},
		"limpiar":   {RoleSupervisor, "limpiar - vacía la lista seleccionada", (*Session).limpiar},
		"finalizar": {RoleSupervisor, "finalizar - guarda la lista como reposición pendiente", (*Session).finalizar},
		"historial": {RoleSupervisor, "historial <producto> - ventas del producto", (*Session).historial},
		"pendiente": {RoleRepositor, "pendiente - muestra la reposición pendiente", (*Session).pendiente},
		"reponer":   {RoleRepositor, "reponer <c1> <c2> ... - cantidades en orden (o separadas por coma)", (*Session).reponer},
		"historico": {"", "historico - reposiciones registradas", (*Session).historico},
		"exportar":  {"", "exportar <formato> [ruta] - exporta la reposición pendiente", (*Session).exportar},
		"recargar":  {"", "recargar - vuelve a leer los CSV", (*Session).recargar},
		"estado":    {"", "estado - datos cargados y archivos fuente", (*Session).estado},
		"rutas":     {"", "rutas - archivos de trabajo", (*Session).rutas},
		"ayuda":     {"", "ayuda - esta lista", (*Session).ayuda},
	}
}

// Run czyta komendy do EOF albo "salir".
func (s *Session) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		if quit := s.Exec(sc.Text()); quit {
			return nil
		}
	}
}

// Exec wykonuje jedną linię. Zwraca true dla "salir".
func (s *Session) Exec(line string) bool {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	switch name {
	case "":
		return false
	case "salir", "exit", "quit":
		return true
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintln(s.out, "Comando desconocido. Escriba 'ayuda'.")
		return false
	}
	if cmd.role != "" && s.d.Role != "" && cmd.role != s.d.Role {
		fmt.Fprintf(s.out, "El comando '%s' no está disponible para el rol %s.\n", name, s.d.Role)
		return false
	}
	if err := cmd.run(s, args); err != nil {
		s.d.Log.Warn().Err(err).Str("cmd", name).Msg("comando falló")
		fmt.Fprintln(s.out, "Error:", err)
	}
	return false
}

func (s *Session) buscar(args string) error {
	if args == "" {
		return errors.New("indique un código o parte de él")
	}
	res, err := s.d.Loader.SearchStock(args)
	if err != nil {
		return err
	}
	s.last = res
	if len(res) == 0 {
		fmt.Fprintln(s.out, "Sin resultados.")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCódigo\tProducto\tStock\tPicking\tReposición")
	for i, r := range res {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, r.Codigo, r.Producto, r.Stock, dash(r.Picking), dash(r.Reposicion))
	}
	return tw.Flush()
}

func (s *Session) seleccionar(args string) error {
	nstr, obs, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(nstr)
	if err != nil || n < 1 || n > len(s.last) {
		return fmt.Errorf("número fuera de rango: %q (use 'buscar' primero)", nstr)
	}
	rec := s.last[n-1]
	if !s.sel.Add(rec, strings.TrimSpace(obs)) {
		fmt.Fprintf(s.out, "%s ya está en la lista.\n", rec.Codigo)
		return nil
	}
	fmt.Fprintf(s.out, "Agregado %s (%d en la lista).\n", rec.Codigo, s.sel.Len())
	return nil
}

func (s *Session) lista(string) error {
	items := s.sel.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "La lista está vacía.")
		return nil
	}
	return s.printItems(items)
}

func (s *Session) limpiar(string) error {
	s.sel.Reset()
	fmt.Fprintln(s.out, "Lista vaciada.")
	return nil
}

func (s *Session) finalizar(string) error {
	items, err := s.sup.Finalize(s.sel)
	if err != nil {
		return err
	}
	s.sel.Reset()
	s.last = nil
	fmt.Fprintf(s.out, "Reposición pendiente guardada: %d productos en %s\n", len(items), s.d.Pending.Path())
	return nil
}

func (s *Session) historial(args string) error {
	if args == "" {
		return errors.New("indique el nombre del producto")
	}
	entries, err := s.d.Loader.SalesHistory(args)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "Sin ventas para ese producto.")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Fecha\tComprobante\tCliente\tCantidad\tEstado")
	for _, e := range entries {
		fecha := e.Fecha
		if e.DateOK {
			fecha = e.Date.Format("02/01/2006")
		}
		estado := "-"
		if e.HasEstado {
			estado = dash(e.Estado)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", dash(fecha), e.Comprobante, dash(e.Fields.Value(dataset.ColCliente)), e.Cantidad, estado)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := dataset.SummarizeSales(entries)
	fmt.Fprintf(s.out, "Ventas: %d, unidades: %s", sum.Sales, sum.Units.String())
	if sum.BadQuantity > 0 {
		fmt.Fprintf(s.out, " (%d cantidades ilegibles)", sum.BadQuantity)
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Session) pendiente(string) error {
	items, err := s.rep.Pending()
	if errors.Is(err, pending.ErrNotFound) {
		fmt.Fprintln(s.out, "No hay reposición pendiente.")
		return nil
	}
	if err != nil {
		return err
	}
	return s.printItems(items)
}

// reponer: "5 0 3" albo "5,0,3" (przecinki pozwalają podać pustą wartość).
func (s *Session) reponer(args string) error {
	var values []string
	if strings.Contains(args, ",") {
		values = strings.Split(args, ",")
	} else {
		values = strings.Fields(args)
	}
	items, err := s.rep.Finalize(values)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Reposición registrada: %d productos en %s\n", len(items), s.d.History.Path())
	return nil
}

func (s *Session) historico(string) error {
	entries, err := s.d.History.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "El histórico está vacío.")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Fecha\tRol\tCódigo\tProducto\tCantidad")
	for _, e := range entries {
		qty := "-"
		if e.CantidadReponer != nil {
			qty = strconv.Itoa(*e.CantidadReponer)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.FechaRegistro, e.Rol, e.Codigo, e.Producto, qty)
	}
	return tw.Flush()
}

func (s *Session) exportar(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("indique el formato: %s", strings.Join(export.Names(), ", "))
	}
	format := strings.ToLower(fields[0])
	e, ok := export.Get(format)
	if !ok {
		return fmt.Errorf("formato desconocido %q, disponibles: %s", format, strings.Join(export.Names(), ", "))
	}
	items, err := s.d.Pending.Load()
	if err != nil {
		return err
	}

	now := s.d.Now()
	path := filepath.Join(s.d.ExportDir, export.FileName(now, e.Ext()))
	if len(fields) > 1 {
		path = fields[1]
	}
	sheet := export.Sheet{Title: "Reposición pendiente", GeneratedAt: now, Items: items}
	if err := export.WriteFile(format, path, sheet); err != nil {
		return err
	}
	s.d.Log.Info().Str("formato", format).Str("archivo", path).Msg("exportación creada")
	fmt.Fprintln(s.out, "Exportado a", path)
	return nil
}

func (s *Session) recargar(string) error {
	v, err := s.d.Loader.Reload()
	if err != nil {
		return err
	}
	s.last = nil
	fmt.Fprintf(s.out, "Datos recargados: %d productos, %d ventas.\n", len(v.Stock), len(v.Sales))
	return nil
}

func (s *Session) estado(string) error {
	if s.d.Loader.Loaded() {
		v, err := s.d.Loader.Load()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Datos: %d productos, %d ventas (cargados %s)\n",
			len(v.Stock), len(v.Sales), v.LoadedAt.Format("02/01/2006 15:04"))
	} else {
		fmt.Fprintln(s.out, "Datos: sin cargar")
	}
	fmt.Fprintf(s.out, "Lista seleccionada: %d\n", s.sel.Len())
	if s.d.Pending.Exists() {
		fmt.Fprintln(s.out, "Reposición pendiente: sí")
	} else {
		fmt.Fprintln(s.out, "Reposición pendiente: no")
	}

	if s.d.Sources == nil {
		return nil
	}
	srcs, err := s.d.Sources.Sources()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, f := range srcs {
		st := "ok"
		if f.Status == db.StatusError {
			st = "error: " + f.LastError
		}
		fmt.Fprintf(tw, "  %s\t%d filas\t%s\n", f.Name, f.Rows, st)
	}
	return tw.Flush()
}

func (s *Session) rutas(string) error {
	fmt.Fprintln(s.out, "Pendiente:", s.d.Pending.Path())
	fmt.Fprintln(s.out, "Histórico:", s.d.History.Path())
	fmt.Fprintln(s.out, "Exportaciones:", s.d.ExportDir)
	return nil
}

func (s *Session) ayuda(string) error {
	for _, name := range []string{
		"buscar", "sel", "lista", "limpiar", "finalizar", "historial",
		"pendiente", "reponer", "historico", "exportar", "recargar", "estado", "rutas", "ayuda",
	} {
		c := commands[name]
		if c.role != "" && s.d.Role != "" && c.role != s.d.Role {
			continue
		}
		fmt.Fprintln(s.out, "  "+c.help)
	}
	fmt.Fprintln(s.out, "  salir")
	return nil
}

func (s *Session) printItems(items []pending.Item) error {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPicking\tCódigo\tProducto\tStock\tObservaciones")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, dash(it.Picking), it.Codigo, it.Producto, it.Stock, it.Observaciones)
	}
	return tw.Flush()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
