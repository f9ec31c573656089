// Package manufacturing contiene las reglas puras de la fabricación por fórmula:
// explosión de la lista de materiales, detección de faltantes y costeo.
package manufacturing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// Requirement consumo requerido de un componente para una cantidad producida.
type Requirement struct {
	ComponentID     string
	QuantityPerUnit decimal.Decimal
	Required        decimal.Decimal
}

// ComputeRequirements multiplica cada línea de la lista de materiales por la cantidad a producir.
// Las líneas repetidas de un mismo componente se acumulan; el resultado se ordena por ComponentID
// para que los bloqueos de fila se tomen siempre en el mismo orden. Required queda redondeado a
// domain.Scale, igual que lo guardan el stock y el libro de movimientos.
func ComputeRequirements(lines []*entity.BOMLine, produced decimal.Decimal) ([]Requirement, error) {
	if !produced.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("produced_quantity", "debe ser mayor que cero")
	}
	if err := domain.CheckScale("produced_quantity", produced); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.NewValidationError("bom", "el artículo no tiene lista de materiales")
	}
	byComponent := make(map[string]*Requirement, len(lines))
	for _, l := range lines {
		if l == nil || l.ComponentItemID == "" {
			return nil, domain.NewValidationError("bom", "línea sin componente")
		}
		if !l.QuantityPerUnit.GreaterThan(decimal.Zero) {
			return nil, domain.NewValidationError("bom", "cantidad por unidad inválida para %s", l.ComponentItemID)
		}
		if !domain.FitsScale(l.QuantityPerUnit) {
			return nil, domain.NewValidationError("bom", "cantidad por unidad de %s con más de %d decimales", l.ComponentItemID, domain.Scale)
		}
		r, ok := byComponent[l.ComponentItemID]
		if !ok {
			r = &Requirement{ComponentID: l.ComponentItemID}
			byComponent[l.ComponentItemID] = r
		}
		r.QuantityPerUnit = r.QuantityPerUnit.Add(l.QuantityPerUnit)
		r.Required = domain.RoundScale(r.QuantityPerUnit.Mul(produced))
	}
	out := make([]Requirement, 0, len(byComponent))
	for _, r := range byComponent {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentID < out[j].ComponentID })
	return out, nil
}

// FindShortages compara requerimientos contra existencias disponibles (componente → cantidad).
// Un componente ausente del mapa cuenta con existencia cero. Devuelve nil si todo alcanza.
func FindShortages(reqs []Requirement, available map[string]decimal.Decimal) []domain.Shortage {
	var shortages []domain.Shortage
	for _, r := range reqs {
		avail := available[r.ComponentID]
		if avail.LessThan(r.Required) {
			shortages = append(shortages, domain.Shortage{
				ComponentID: r.ComponentID,
				Required:    r.Required,
				Available:   avail,
				Missing:     r.Required.Sub(avail),
			})
		}
	}
	return shortages
}
