package manufacturing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// CostLine consumo valorizado de un componente.
type CostLine struct {
	ComponentID     string
	QuantityPerUnit decimal.Decimal
	Required        decimal.Decimal
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
}

// CostSummary totales de una corrida de producción.
type CostSummary struct {
	Lines                  []CostLine
	TotalRawMaterialCost   decimal.Decimal
	LaborCost              decimal.Decimal
	OverheadCost           decimal.Decimal
	TotalManufacturingCost decimal.Decimal
	CostPerUnit            decimal.Decimal
}

// RollUpCost valoriza los requerimientos al costo unitario de cada componente y suma mano de obra
// y costos indirectos:
//
//	materia prima = Σ requerido_i * costo_i
//	total         = materia prima + mano de obra + indirectos
//	costo unidad  = total / producido
//
// Cada total de línea y el costo por unidad se redondean a domain.Scale; la materia prima es la
// suma exacta de las líneas ya redondeadas.
func RollUpCost(reqs []Requirement, unitCosts map[string]decimal.Decimal, labor, overhead, produced decimal.Decimal) (CostSummary, error) {
	if !produced.GreaterThan(decimal.Zero) {
		return CostSummary{}, domain.NewValidationError("produced_quantity", "debe ser mayor que cero")
	}
	if labor.LessThan(decimal.Zero) || overhead.LessThan(decimal.Zero) {
		return CostSummary{}, domain.NewValidationError("cost", "mano de obra e indirectos no pueden ser negativos")
	}
	summary := CostSummary{
		Lines:        make([]CostLine, 0, len(reqs)),
		LaborCost:    labor,
		OverheadCost: overhead,
	}
	raw := decimal.Zero
	for _, r := range reqs {
		unitCost, ok := unitCosts[r.ComponentID]
		if !ok {
			return CostSummary{}, domain.NewValidationError("bom", "sin costo para el componente %s", r.ComponentID)
		}
		total := domain.RoundScale(r.Required.Mul(unitCost))
		raw = raw.Add(total)
		summary.Lines = append(summary.Lines, CostLine{
			ComponentID:     r.ComponentID,
			QuantityPerUnit: r.QuantityPerUnit,
			Required:        r.Required,
			UnitCost:        unitCost,
			TotalCost:       total,
		})
	}
	summary.TotalRawMaterialCost = raw
	summary.TotalManufacturingCost = raw.Add(labor).Add(overhead)
	summary.CostPerUnit = domain.RoundScale(summary.TotalManufacturingCost.Div(produced))
	return summary, nil
}
