// Package pdf genera el reporte de stock bajo que se adjunta al resumen diario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación │ N° de ítems          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Ubicación/Bin | Cant | Mín | Lead   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: acción recomendada                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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

	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 220, Green: 38, Blue: 38}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 185, Green: 28, Blue: 28}
)

// criticalQty cantidades por debajo se imprimen en rojo.
var criticalQty = decimal.NewFromInt(5)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.LowStockPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.LowStockPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateLowStockPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLowStockPDF(
	_ context.Context,
	items []*entity.LowStockItem,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Low Stock Report", true).
		WithAuthor("OurHouse Inventory", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(len(items), generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(count int, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("Low Stock Alert", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Generated on "+at.Format("Monday, January 2, 2006 15:04 MST"), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d item(s)", count), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("below minimum stock", props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorGray, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Product", 3, align.Left),
		h("Location / Bin", 3, align.Left),
		h("Qty", 1, align.Center),
		h("Min", 1, align.Center),
		h("Lead time", 2, align.Center),
	)
}

// tableDetailRows una fila por bin con stock bajo.
func tableDetailRows(items []*entity.LowStockItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		qtyProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if it.Qty.LessThan(criticalQty) {
			qtyProps.Style = fontstyle.Bold
			qtyProps.Color = colorCritical
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.LocationName+" / "+it.BinCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Qty.String(), qtyProps)),
			col.New(1).Add(text.New(it.MinQty.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(leadTime(it.LeadTimeDays), props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Recommended action: review these items and create purchase orders "+
			"for products with longer lead times.", props.Text{Size: 7.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func leadTime(days int) string {
	if days > 0 {
		return fmt.Sprintf("%d days", days)
	}
	return "N/A"
}
