package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMLine línea de la lista de materiales: cuánto de ComponentItemID se consume por unidad de ParentItemID.
type BOMLine struct {
	ID              string
	CompanyID       string
	ParentItemID    string
	ComponentItemID string
	QuantityPerUnit decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}
