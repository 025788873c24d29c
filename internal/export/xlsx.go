package export

import (
	"io"

	"github.com/bartek5186/reposicion/internal/pending"
	"github.com/xuri/excelize/v2"
)

func init() { Register("xlsx", xlsxExporter{}) }

var xlsxHeader = []interface{}{
	"codigo", "producto", "stock", "picking", "reposicion", "observaciones", "cantidad_reponer",
}

type xlsxExporter struct{}

func (xlsxExporter) Ext() string { return ".xlsx" }

// Write: jeden arkusz, nagłówek + pozycje w kolejności partii.
// cantidad_reponer pusta, dopóki repositor jej nie wpisze.
func (xlsxExporter) Write(w io.Writer, s Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := xlsxHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, it := range s.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(it)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "B", "B", 45); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "F", "G", 20); err != nil {
		return err
	}
	return f.Write(w)
}

func xlsxRow(it pending.Item) []interface{} {
	var qty interface{}
	if it.CantidadReponer != nil {
		qty = *it.CantidadReponer
	}
	return []interface{}{it.Codigo, it.Producto, it.Stock, it.Picking, it.Reposicion, it.Observaciones, qty}
}
