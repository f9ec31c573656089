package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del inventario: materia prima, semielaborado o producto terminado.
// Cost es el costo promedio ponderado; OnHand es el total desnormalizado de todas las bodegas
// (el detalle por bodega vive en Stock).
type Item struct {
	ID          string
	CompanyID   string
	SKU         string // único por empresa
	Name        string
	Description string
	Unit        string // kg, g, l, und...
	Cost        decimal.Decimal
	OnHand      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// IsDeleted indica si el artículo fue eliminado lógicamente.
func (i *Item) IsDeleted() bool { return i.DeletedAt != nil }
