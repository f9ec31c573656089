package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es la existencia de un artículo en una bodega (tabla inventory_stock).
type Stock struct {
	CompanyID   string
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
