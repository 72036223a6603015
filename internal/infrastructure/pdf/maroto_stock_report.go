// Package pdf genera el reporte de stock del almacén con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app        │  Fecha de generación      │
//	│  RESUMEN: productos / movimientos / stock bajo               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Código | Piezas | Tarimas | Alerta | Valor│
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de stock bajo                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 190, Green: 30, Blue: 45}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.StockReportGenerator = (*MarotoStockReport)(nil)

// MarotoStockReport implementa report.StockReportGenerator usando Maroto v2.
type MarotoStockReport struct {
	title string
}

// NewMarotoStockReport construye el generador. title aparece en el encabezado.
func NewMarotoStockReport(title string) *MarotoStockReport {
	if title == "" {
		title = "Inventario de almacén"
	}
	return &MarotoStockReport{title: title}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReport) GenerateStockReport(_ context.Context, r *report.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, r))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(r.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(title string, r *report.StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("REPORTE DE STOCK", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRow: totales del snapshot.
func summaryRow(r *report.StockReport) core.Row {
	kpi := func(label string, value int, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(strconv.Itoa(value), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: c, Align: align.Center, Top: 5,
			}),
		)
	}
	return row.New(14).Add(
		kpi("Productos", r.TotalProducts, colorPrimary),
		kpi("Movimientos", r.TotalMovements, colorPrimary),
		kpi("Stock bajo", r.LowStockCount, colorAlert),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo de color primario.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Código", 2, align.Left),
		h("Piezas", 1, align.Right),
		h("Tarimas", 1, align.Right),
		h("Alerta", 1, align.Right),
		h("Valor", 2, align.Right),
		h("", 1, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por producto.
func tableRows(rows []report.StockRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, p := range rows {
		cell := func(s string, size int, a align.Type) core.Col {
			t := props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
			if p.LowStock {
				t.Color = colorAlert
			}
			return col.New(size).Add(text.New(s, t))
		}
		marker := ""
		if p.LowStock {
			marker = "BAJO"
		}
		result = append(result, row.New(6).Add(
			cell(p.Name, 4, align.Left),
			cell(nonEmpty(p.Barcode, "-"), 2, align.Left),
			cell(strconv.Itoa(p.Pieces), 1, align.Right),
			cell(strconv.Itoa(p.Pallets), 1, align.Right),
			cell(strconv.Itoa(p.MinStockAlert), 1, align.Right),
			cell("$"+formatMoney(p.StockValue), 2, align.Right),
			cell(marker, 1, align.Center),
		))
	}
	if len(rows) == 0 {
		result = append(result, row.New(8).Add(col.New(12).Add(
			text.New("Sin productos registrados", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("BAJO: stock en piezas menor o igual al umbral de alerta. Valor = piezas × precio por pieza.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal (2 decimales).
// Ej: 25000 → "25.000,00", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
