package entity

import "time"

// Warehouse representa una bodega donde se almacena materia prima o producto terminado.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
