package dto

import "time"

// CreateWarehouseRequest alta de bodega. Una orden de fabricación usa una como origen de materia prima
// y otra (o la misma) como destino del producto terminado.
type CreateWarehouseRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=500"`
}

// UpdateWarehouseRequest cambio parcial; nil deja el campo como está.
type UpdateWarehouseRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// WarehouseResponse bodega activa de la empresa. Las eliminadas no se devuelven ni reciben movimientos.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
