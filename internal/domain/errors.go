package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrAlreadyCompleted    = errors.New("la orden de fabricación ya fue calculada")
	ErrConcurrencyConflict = errors.New("recurso bloqueado por otra operación, reintente")
)

// ValidationError detalla por qué una entrada fue rechazada. Es ErrInvalidInput para errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Shortage faltante de un componente para completar una fabricación.
type Shortage struct {
	ComponentID   string
	ComponentSKU  string
	ComponentName string
	Unit          string
	Required      decimal.Decimal
	Available     decimal.Decimal
	Missing       decimal.Decimal
}

// ShortageError rechazo de negocio: uno o más componentes no alcanzan. Es ErrInsufficientStock para errors.Is.
type ShortageError struct {
	Shortages []Shortage
}

func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s falta %s", s.ComponentID, s.Missing.String()))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, ", ")
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *ShortageError) Is(target error) bool { return target == ErrInsufficientStock }
