package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleBodeguero  = "bodeguero"
	RoleProduccion = "produccion"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string // admin, bodeguero, produccion
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
