package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de fabricación.
const (
	ManufacturingStatusDraft     = "draft"
	ManufacturingStatusCompleted = "completed"
)

// ManufacturingRecord cabecera de una corrida de producción: qué se fabrica, desde qué bodega
// se consume la materia prima, a qué bodega entra el producto y el costeo resultante.
type ManufacturingRecord struct {
	ID                     string
	CompanyID              string
	ItemID                 string // producto terminado
	SourceWarehouseID      string // materias primas
	DestinationWarehouseID string // producto terminado
	PlannedQuantity        decimal.Decimal
	ProducedQuantity       decimal.Decimal
	LaborCost              decimal.Decimal
	OverheadCost           decimal.Decimal
	TotalRawMaterialCost   decimal.Decimal
	TotalManufacturingCost decimal.Decimal
	CostPerUnit            decimal.Decimal
	Status                 string
	Notes                  string
	CompletedAt            *time.Time
	CreatedBy              string
	CreatedAt              time.Time
	UpdatedAt              time.Time
	DeletedAt              *time.Time
}

// IsCompleted indica si la orden ya consumió inventario.
func (r *ManufacturingRecord) IsCompleted() bool {
	return r.Status == ManufacturingStatusCompleted
}

// ManufacturingRecordLine desglose de consumo de un componente escrito al calcular.
type ManufacturingRecordLine struct {
	ID               string
	RecordID         string
	ComponentItemID  string
	QuantityPerUnit  decimal.Decimal
	RequiredQuantity decimal.Decimal
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
}
