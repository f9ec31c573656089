// Package pdf genera la hoja de costos de una orden de fabricación completada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  N° Orden + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: SKU / Nombre / Cantidad producida                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Componente | Cant/u | Consumo | C.Unit | Total │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Materias primas / MO / CIF / Total / Costo unit.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID de la orden                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ manufacturing.CostSheetGenerator = (*CostSheetGenerator)(nil)

// CostSheetGenerator implementa manufacturing.CostSheetGenerator usando Maroto v2.
type CostSheetGenerator struct{}

// NewCostSheetGenerator construye el generador.
func NewCostSheetGenerator() *CostSheetGenerator { return &CostSheetGenerator{} }

// GenerateCostSheetPDF genera el PDF y devuelve sus bytes. item puede ser nil (artículo eliminado).
func (g *CostSheetGenerator) GenerateCostSheetPDF(
	_ context.Context,
	record *entity.ManufacturingRecord,
	company *entity.Company,
	item *entity.Item,
	lines []manufacturing.CostSheetLine,
) ([]byte, error) {
	if record == nil || company == nil {
		return nil, fmt.Errorf("pdf: orden y empresa son obligatorias")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de costos de fabricación", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(record, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(record, item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(record))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(record))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(record *entity.ManufacturingRecord, company *entity.Company) core.Row {
	fecha := record.CreatedAt.Format("02/01/2006")
	if record.CompletedAt != nil {
		fecha = record.CompletedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(company.NIT, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE COSTOS DE FABRICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(record.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func productRow(record *entity.ManufacturingRecord, item *entity.Item) core.Row {
	name, sku, unit := "(artículo eliminado)", "—", ""
	if item != nil {
		name, sku, unit = item.Name, item.SKU, item.Unit
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PRODUCTO TERMINADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("SKU: %s   |   Planeado: %s %s   |   Producido: %s %s",
				sku,
				qty(record.PlannedQuantity), unit,
				qty(record.ProducedQuantity), unit,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Componente", 3, align.Left),
		h("Cant./u", 1, align.Right),
		h("Consumo", 2, align.Right),
		h("Costo unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows una fila por componente consumido.
func tableDetailRows(lines []manufacturing.CostSheetLine) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		if l.Line == nil {
			continue
		}
		result = append(result, row.New(7).Add(
			cell(nonEmpty(l.SKU, "—"), 2, align.Left),
			cell(nonEmpty(l.Name, l.Line.ComponentItemID), 3, align.Left),
			cell(qty(l.Line.QuantityPerUnit), 1, align.Right),
			cell(strings.TrimSpace(qty(l.Line.RequiredQuantity)+" "+l.Unit), 2, align.Right),
			cell("$"+money(l.Line.UnitCost), 2, align.Right),
			cell("$"+money(l.Line.TotalCost), 2, align.Right),
		))
	}
	return result
}

func totalsRow(record *entity.ManufacturingRecord) core.Row {
	labels := []string{"Materias primas:", "Mano de obra:", "Costos indirectos:", "TOTAL:", "Costo unitario:"}
	values := []decimal.Decimal{
		record.TotalRawMaterialCost, record.LaborCost, record.OverheadCost,
		record.TotalManufacturingCost, record.CostPerUnit,
	}
	left, right := col.New(4), col.New(3)
	for i := range labels {
		style := fontstyle.Normal
		if i == 3 {
			style = fontstyle.Bold
		}
		top := float64(i) * 5
		left.Add(text.New(labels[i], props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		right.Add(text.New("$"+money(values[i]), props.Text{Style: style, Size: 9, Align: align.Right, Right: 1, Top: top}))
	}
	return row.New(28).Add(col.New(5), left, right)
}

func footerRow(record *entity.ManufacturingRecord) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr("manufacturing:"+record.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Orden: "+record.ID, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Los costos de materias primas corresponden al costo promedio ponderado "+
				"de cada componente al momento del cálculo.", props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return "OF-" + strings.ToUpper(id[:8])
	}
	return "OF-" + strings.ToUpper(id)
}

func qty(d decimal.Decimal) string {
	return d.String()
}

// money formatea con puntos de miles y dos decimales con coma. Ej: 1234567.5 → "1.234.567,50".
func money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	out := formatThousands(intPart) + "," + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
