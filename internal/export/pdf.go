package export

import (
	"fmt"
	"io"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/bartek5186/reposicion/internal/pending"
)

func init() { Register("pdf", pdfExporter{}) }

var (
	colorHeader = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray   = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// pdfExporter drukuje arkusz picking: pozycje w kolejności partii,
// z pustą kolumną na ilość do wpisania ręcznie.
type pdfExporter struct{}

func (pdfExporter) Ext() string { return ".pdf" }

func (pdfExporter) Write(w io.Writer, s Sheet) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(s.Title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(titleRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorHeader, Thickness: 0.5}))
	m.AddRows(pdfHeaderRow())
	for i, it := range s.Items {
		m.AddRows(pdfItemRow(i+1, it))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	_, err = w.Write(doc.GetBytes())
	return err
}

func titleRow(s Sheet) core.Row {
	fecha := ""
	if !s.GeneratedAt.IsZero() {
		fecha = s.GeneratedAt.Format("02/01/2006 15:04")
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New(s.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorHeader, Top: 2}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d productos", len(s.Items)), props.Text{Size: 9, Align: align.Right, Top: 2}),
			text.New(fecha, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func pdfHeaderRow() core.Row {
	h := props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Color: colorHeader}
	hr := h
	hr.Align = align.Right
	return row.New(7).Add(
		col.New(1).Add(text.New("#", h)),
		col.New(2).Add(text.New("Picking", h)),
		col.New(2).Add(text.New("Código", h)),
		col.New(4).Add(text.New("Producto", h)),
		col.New(1).Add(text.New("Stock", hr)),
		col.New(2).Add(text.New("Cantidad", hr)),
	)
}

func pdfItemRow(n int, it pending.Item) core.Row {
	c := props.Text{Size: 8, Top: 1}
	cr := c
	cr.Align = align.Right
	qty := "______"
	if it.CantidadReponer != nil {
		qty = strconv.Itoa(*it.CantidadReponer)
	}
	producto := it.Producto
	if it.Observaciones != "" {
		producto += " (" + it.Observaciones + ")"
	}
	return row.New(6).Add(
		col.New(1).Add(text.New(strconv.Itoa(n), c)),
		col.New(2).Add(text.New(it.Picking, c)),
		col.New(2).Add(text.New(it.Codigo, c)),
		col.New(4).Add(text.New(producto, c)),
		col.New(1).Add(text.New(it.Stock, cr)),
		col.New(2).Add(text.New(qty, cr)),
	)
}
