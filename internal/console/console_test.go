package console

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bartek5186/reposicion/internal/dataset"
	"github.com/bartek5186/reposicion/internal/history"
	"github.com/bartek5186/reposicion/internal/pending"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

var fixtures = map[string]string{
	dataset.FileStock: "codigo;producto;stock\n" +
		"A1;Café Córdoba;10\n" +
		"B2;Yerba Mate;5\n" +
		"C3;Dulce de Leche;0\n",
	dataset.FileAlmacen: "codigo;picking;reposicion\n" +
		"A1;10A;R-01\n" +
		"C3;2B;R-02\n",
	dataset.FileVentas: "comprobante;producto;cantidad;codigo;fecha;cliente\n" +
		"F-001;Café Córdoba;2;A1;01/03/2024;Juan Pérez\n" +
		"F-002;CAFE CORDOBA;1,5;A1;15/03/2024;Ana\n" +
		"F-003;Yerba Mate;3;B2;10/02/2024;Luis\n" +
		"F-004;café córdoba;1;A1;sin fecha;\n",
	dataset.FilePedidos: "Numero de pedido DUX;Estado de preparacion\n" +
		"F-001;Preparado\n",
}

type env struct {
	dir     string
	out     *bytes.Buffer
	pending *pending.Store
	history *history.Recorder
}

func newSession(t *testing.T, role string) (*Session, *env) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtures {
		raw, err := charmap.ISO8859_1.NewEncoder().String(content)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(raw), 0o644))
	}
	e := &env{
		dir:     dir,
		out:     &bytes.Buffer{},
		pending: pending.NewStore(filepath.Join(dir, pending.FileName)),
		history: history.NewRecorder(filepath.Join(dir, history.FileName)),
	}
	s := New(Deps{
		Loader:    dataset.NewLoader(dataset.DefaultPaths(dir)),
		Pending:   e.pending,
		History:   e.history,
		ExportDir: filepath.Join(dir, "export"),
		Role:      role,
		Log:       zerolog.Nop(),
		Now:       func() time.Time { return time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC) },
	}, e.out)
	return s, e
}

func (e *env) take() string {
	s := e.out.String()
	e.out.Reset()
	return s
}

func TestSupervisorFlow(t *testing.T) {
	s, e := newSession(t, RoleSupervisor)

	s.Exec("buscar a1")
	out := e.take()
	assert.Contains(t, out, "Café Córdoba")
	assert.Contains(t, out, "10A")

	s.Exec("sel 1 urgente")
	assert.Contains(t, e.take(), "Agregado A1")
	s.Exec("sel 1")
	assert.Contains(t, e.take(), "ya está en la lista")

	s.Exec("buscar C")
	s.Exec("sel 1")
	e.take()

	s.Exec("lista")
	assert.Contains(t, e.take(), "urgente")

	s.Exec("finalizar")
	assert.Contains(t, e.take(), "2 productos")

	items, err := e.pending.Load()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2B", items[0].Picking)
	assert.Equal(t, "10A", items[1].Picking)
	assert.Equal(t, "urgente", items[1].Observaciones)

	s.Exec("lista")
	assert.Contains(t, e.take(), "vacía")
}

func TestSelectOutOfRange(t *testing.T) {
	s, e := newSession(t, "")
	s.Exec("sel 1")
	assert.Contains(t, e.take(), "fuera de rango")

	s.Exec("finalizar")
	assert.Contains(t, e.take(), "no hay productos seleccionados")
	assert.False(t, e.pending.Exists())
}

func TestRoleRestrictsCommands(t *testing.T) {
	s, e := newSession(t, RoleRepositor)
	s.Exec("buscar a1")
	assert.Contains(t, e.take(), "no está disponible para el rol repositor")

	s.Exec("ayuda")
	help := e.take()
	assert.Contains(t, help, "reponer")
	assert.NotContains(t, help, "buscar")
}

func TestRepositorFlow(t *testing.T) {
	s, e := newSession(t, "")
	require.NoError(t, e.pending.Save([]pending.Item{
		{Codigo: "C3", Producto: "Dulce de Leche", Picking: "2B"},
		{Codigo: "A1", Producto: "Café Córdoba", Picking: "10A"},
	}))

	s.Exec("pendiente")
	assert.Contains(t, e.take(), "Dulce de Leche")

	s.Exec("reponer 5 -1")
	assert.Contains(t, e.take(), "fila 2: cantidad negativa")
	assert.True(t, e.pending.Exists())

	s.Exec("reponer 5,")
	assert.Contains(t, e.take(), "fila 2: cantidad vacía")

	s.Exec("reponer 5 0")
	assert.Contains(t, e.take(), "2 productos")
	assert.False(t, e.pending.Exists())

	s.Exec("pendiente")
	assert.Contains(t, e.take(), "No hay reposición pendiente")

	s.Exec("historico")
	out := e.take()
	assert.Contains(t, out, "repositor")
	assert.Contains(t, out, "Café Córdoba")
}

func TestSalesHistoryCommand(t *testing.T) {
	s, e := newSession(t, "")
	s.Exec("historial Café Córdoba")
	out := e.take()

	assert.Contains(t, out, "Ventas: 3, unidades: 4.5")
	assert.Contains(t, out, "Preparado")
	assert.Contains(t, out, "Cliente")
	assert.Contains(t, out, "Juan Pérez")
	assert.Contains(t, out, "Ana")
	assert.Less(t, strings.Index(out, "15/03/2024"), strings.Index(out, "01/03/2024"))
	assert.Less(t, strings.Index(out, "01/03/2024"), strings.Index(out, "sin fecha"))
}

func TestExportCommand(t *testing.T) {
	s, e := newSession(t, "")
	s.Exec("exportar xlsx")
	assert.Contains(t, e.take(), "no hay reposición pendiente")

	require.NoError(t, e.pending.Save([]pending.Item{{Codigo: "A1", Producto: "Café"}}))
	s.Exec("exportar xlsx")
	assert.Contains(t, e.take(), "Exportado")
	_, err := os.Stat(filepath.Join(e.dir, "export", "reposicion_20250502_0930.xlsx"))
	require.NoError(t, err)

	s.Exec("exportar odt")
	assert.Contains(t, e.take(), "pdf, xlsx")
}

func TestReloadAndStatus(t *testing.T) {
	s, e := newSession(t, "")
	s.Exec("estado")
	assert.Contains(t, e.take(), "sin cargar")

	s.Exec("recargar")
	assert.Contains(t, e.take(), "3 productos, 4 ventas")

	require.NoError(t, os.Remove(filepath.Join(e.dir, dataset.FileVentas)))
	s.Exec("recargar")
	assert.Contains(t, e.take(), "ventas.csv")

	s.Exec("estado")
	assert.Contains(t, e.take(), "3 productos, 4 ventas")
}

func TestRunStopsOnSalir(t *testing.T) {
	s, e := newSession(t, "")
	require.NoError(t, s.Run(strings.NewReader("ayuda\nxyz\nsalir\nayuda\n")))
	out := e.take()
	assert.Contains(t, out, "Comando desconocido")
	assert.Equal(t, 1, strings.Count(out, "exportar <formato>"))
}
