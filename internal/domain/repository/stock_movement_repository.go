package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockMovementRepository puerto del libro de movimientos. Solo inserción y lectura.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, companyID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(ctx context.Context, companyID, referenceType, referenceID string) ([]*entity.StockMovement, error)
}
