package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// BOMRepository puerto de persistencia de la lista de materiales.
// Create devuelve domain.ErrDuplicate si ya existe una línea activa para (padre, componente).
type BOMRepository interface {
	Create(ctx context.Context, line *entity.BOMLine) error
	GetByID(ctx context.Context, companyID, id string) (*entity.BOMLine, error)
	Update(ctx context.Context, line *entity.BOMLine) error
	SoftDelete(ctx context.Context, companyID, id string, at time.Time) error
	ListByParent(ctx context.Context, companyID, parentItemID string) ([]*entity.BOMLine, error)
}
