package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"
	MovementTypeOUT        = "OUT"
	MovementTypeADJUSTMENT = "ADJUSTMENT"
	MovementTypeTRANSFER   = "TRANSFER"
)

// Tipos de documento que originan movimientos.
const (
	ReferenceManual        = "manual"
	ReferenceManufacturing = "manufacturing"
)

// StockMovement fila inmutable del libro de movimientos. Solo se inserta; nunca se actualiza ni borra.
type StockMovement struct {
	ID            string
	CompanyID     string
	TransactionID string
	ItemID        string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
