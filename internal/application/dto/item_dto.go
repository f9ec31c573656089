package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo. El costo inicia en 0 y se promedia con las entradas.
type CreateItemRequest struct {
	SKU         string `json:"sku" validate:"required,min=1,max=64"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Unit        string `json:"unit" validate:"required,min=1,max=16"`
}

// UpdateItemRequest entrada para actualizar un artículo (campos opcionales).
type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Unit        *string `json:"unit" validate:"omitempty,min=1,max=16"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Cost        decimal.Decimal `json:"cost"`
	OnHand      decimal.Decimal `json:"on_hand"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
