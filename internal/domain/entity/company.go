package entity

import "time"

// Company representa una organización/tenant del sistema. Toda fila de negocio lleva su company_id.
type Company struct {
	ID        string
	Name      string
	NIT       string // identificación tributaria
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos contratables (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleInventory     = "inventory"
	ModuleManufacturing = "manufacturing"
)

// CompanyModule representa la activación de un módulo en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
