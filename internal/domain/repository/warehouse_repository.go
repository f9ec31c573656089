package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
// Todas las lecturas filtran por empresa y excluyen bodegas eliminadas (deleted_at IS NULL).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error)
	SoftDelete(ctx context.Context, companyID, id string, at time.Time) error
}
