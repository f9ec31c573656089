package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ItemID          string           `json:"item_id" validate:"required"`
	WarehouseID     string           `json:"warehouse_id,omitempty"`
	FromWarehouseID string           `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string           `json:"to_warehouse_id,omitempty"`
	Type            string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes           string           `json:"notes,omitempty" validate:"max=500"`
}

// RegisterMovementResponse identifica la transacción que agrupa los movimientos registrados.
type RegisterMovementResponse struct {
	TransactionID string `json:"transaction_id"`
}

// WarehouseStockDTO existencia de un artículo en una bodega.
type WarehouseStockDTO struct {
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemStockResponse existencias de un artículo: total desnormalizado y detalle por bodega.
type ItemStockResponse struct {
	ItemID     string              `json:"item_id"`
	SKU        string              `json:"sku"`
	Unit       string              `json:"unit"`
	OnHand     decimal.Decimal     `json:"on_hand"`
	Warehouses []WarehouseStockDTO `json:"warehouses"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ItemID        string          `json:"item_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
