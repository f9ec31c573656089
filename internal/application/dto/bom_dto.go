package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddBOMLineRequest agrega un componente a la lista de materiales de un artículo.
type AddBOMLineRequest struct {
	ComponentItemID string          `json:"component_item_id" validate:"required"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// UpdateBOMLineRequest cambia la cantidad por unidad de una línea.
type UpdateBOMLineRequest struct {
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// BOMLineResponse línea de la lista de materiales con datos del componente.
type BOMLineResponse struct {
	ID              string          `json:"id"`
	ParentItemID    string          `json:"parent_item_id"`
	ComponentItemID string          `json:"component_item_id"`
	ComponentSKU    string          `json:"component_sku"`
	ComponentName   string          `json:"component_name"`
	Unit            string          `json:"unit"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BOMResponse lista de materiales completa de un artículo.
type BOMResponse struct {
	ParentItemID string            `json:"parent_item_id"`
	ParentSKU    string            `json:"parent_sku"`
	ParentName   string            `json:"parent_name"`
	Lines        []BOMLineResponse `json:"lines"`
	// UnitMaterialCost costo de materia prima para una unidad al costo promedio vigente.
	UnitMaterialCost decimal.Decimal `json:"unit_material_cost"`
}
