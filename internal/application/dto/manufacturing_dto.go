package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateManufacturingRecordRequest crea una orden de fabricación en borrador.
type CreateManufacturingRecordRequest struct {
	ItemID                 string          `json:"item_id" validate:"required"`
	SourceWarehouseID      string          `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID string          `json:"destination_warehouse_id" validate:"required"`
	PlannedQuantity        decimal.Decimal `json:"planned_quantity"`
	LaborCost              decimal.Decimal `json:"labor_cost"`
	OverheadCost           decimal.Decimal `json:"overhead_cost"`
	Notes                  string          `json:"notes" validate:"max=1000"`
}

// UpdateManufacturingRecordRequest modifica un borrador (campos opcionales).
type UpdateManufacturingRecordRequest struct {
	SourceWarehouseID      *string          `json:"source_warehouse_id"`
	DestinationWarehouseID *string          `json:"destination_warehouse_id"`
	PlannedQuantity        *decimal.Decimal `json:"planned_quantity"`
	LaborCost              *decimal.Decimal `json:"labor_cost"`
	OverheadCost           *decimal.Decimal `json:"overhead_cost"`
	Notes                  *string          `json:"notes" validate:"omitempty,max=1000"`
}

// CalculateRequest body de POST /api/manufacturing/records/:id/calculate.
type CalculateRequest struct {
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
}

// ManufacturingLineResponse consumo valorizado de un componente.
type ManufacturingLineResponse struct {
	ComponentItemID  string          `json:"component_item_id"`
	QuantityPerUnit  decimal.Decimal `json:"quantity_per_unit"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// ManufacturingRecordResponse orden de fabricación con su costeo.
type ManufacturingRecordResponse struct {
	ID                     string                      `json:"id"`
	CompanyID              string                      `json:"company_id"`
	ItemID                 string                      `json:"item_id"`
	SourceWarehouseID      string                      `json:"source_warehouse_id"`
	DestinationWarehouseID string                      `json:"destination_warehouse_id"`
	PlannedQuantity        decimal.Decimal             `json:"planned_quantity"`
	ProducedQuantity       decimal.Decimal             `json:"produced_quantity"`
	LaborCost              decimal.Decimal             `json:"labor_cost"`
	OverheadCost           decimal.Decimal             `json:"overhead_cost"`
	TotalRawMaterialCost   decimal.Decimal             `json:"total_raw_material_cost"`
	TotalManufacturingCost decimal.Decimal             `json:"total_manufacturing_cost"`
	CostPerUnit            decimal.Decimal             `json:"cost_per_unit"`
	Status                 string                      `json:"status"`
	Notes                  string                      `json:"notes"`
	CompletedAt            *time.Time                  `json:"completed_at,omitempty"`
	CreatedBy              string                      `json:"created_by,omitempty"`
	CreatedAt              time.Time                   `json:"created_at"`
	UpdatedAt              time.Time                   `json:"updated_at"`
	Lines                  []ManufacturingLineResponse `json:"lines,omitempty"`
}

// ManufacturingRecordListResponse lista paginada de órdenes.
type ManufacturingRecordListResponse struct {
	Items []ManufacturingRecordResponse `json:"items"`
	Page  PageResponse                  `json:"page"`
}

// ShortageDTO faltante de un componente.
type ShortageDTO struct {
	ComponentID   string          `json:"component_id"`
	ComponentSKU  string          `json:"component_sku,omitempty"`
	ComponentName string          `json:"component_name,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Shortage      decimal.Decimal `json:"shortage"`
}

// ShortageReportResponse cuerpo de rechazo por stock insuficiente.
type ShortageReportResponse struct {
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	Shortages []ShortageDTO `json:"shortages"`
}

// RequirementLineDTO línea de la vista previa de requerimientos.
type RequirementLineDTO struct {
	ComponentID     string          `json:"component_id"`
	ComponentSKU    string          `json:"component_sku"`
	ComponentName   string          `json:"component_name"`
	Unit            string          `json:"unit"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Required        decimal.Decimal `json:"required"`
	Available       decimal.Decimal `json:"available"`
	Shortage        decimal.Decimal `json:"shortage"`
	Sufficient      bool            `json:"sufficient"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

// RequirementPreviewResponse simulación de un cálculo sin mover inventario.
type RequirementPreviewResponse struct {
	RecordID                 string               `json:"record_id"`
	ProducedQuantity         decimal.Decimal      `json:"produced_quantity"`
	Feasible                 bool                 `json:"feasible"`
	EstimatedRawMaterialCost decimal.Decimal      `json:"estimated_raw_material_cost"`
	Lines                    []RequirementLineDTO `json:"lines"`
}
