package dataset

// nazwy kolumn po normalizacji nagłówków
const (
	ColCodigo       = "codigo"
	ColProducto     = "producto"
	ColStock        = "stock"
	ColPicking      = "picking"
	ColReposicion   = "reposicion"
	ColProductoNorm = "producto_norm"

	ColComprobante = "comprobante"
	ColCantidad    = "cantidad"
	ColFecha       = "fecha"
	ColCliente     = "cliente" // opcjonalna, tylko do podglądu

	ColNumeroPedido = "numero de pedido dux"
	ColEstado       = "estado de preparacion"
)

// StockRecord to wiersz widoku stock + lokalizacje z almacen.csv.
// Located == false: brak dopasowania w almacen, pola lokalizacji są null.
type StockRecord struct {
	Codigo       string
	Producto     string
	Stock        string
	Picking      string
	Reposicion   string
	ProductoNorm string
	Located      bool
	Fields       Row // wszystkie kolumny po joinie
}

// SalesRecord to wiersz ventas.csv ze statusem zamówienia.
// HasEstado == false: brak zamówienia o tym numerze.
type SalesRecord struct {
	Comprobante  string
	Producto     string
	Cantidad     string
	Codigo       string
	Fecha        string
	ProductoNorm string
	Estado       string
	HasEstado    bool
	Fields       Row
}

func stockRecords(t *Table, located []bool) []StockRecord {
	out := make([]StockRecord, 0, len(t.Rows))
	for i, r := range t.Rows {
		out = append(out, StockRecord{
			Codigo:       r.Value(ColCodigo),
			Producto:     r.Value(ColProducto),
			Stock:        r.Value(ColStock),
			Picking:      r.Value(ColPicking),
			Reposicion:   r.Value(ColReposicion),
			ProductoNorm: r.Value(ColProductoNorm),
			Located:      located[i],
			Fields:       r,
		})
	}
	return out
}

func salesRecords(t *Table, matched []bool) []SalesRecord {
	out := make([]SalesRecord, 0, len(t.Rows))
	for i, r := range t.Rows {
		estado, ok := r.Get(ColEstado)
		out = append(out, SalesRecord{
			Comprobante:  r.Value(ColComprobante),
			Producto:     r.Value(ColProducto),
			Cantidad:     r.Value(ColCantidad),
			Codigo:       r.Value(ColCodigo),
			Fecha:        r.Value(ColFecha),
			ProductoNorm: r.Value(ColProductoNorm),
			Estado:       estado,
			HasEstado:    matched[i] && ok,
			Fields:       r,
		})
	}
	return out
}
