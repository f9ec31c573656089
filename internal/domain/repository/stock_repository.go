package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar existencias por bodega+artículo.
// Get y GetForUpdate devuelven cantidad cero (no nil) cuando la fila aún no existe.
type StockRepository interface {
	Get(ctx context.Context, companyID, itemID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, itemID, warehouseID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	ListByItem(ctx context.Context, companyID, itemID string) ([]*entity.Stock, error)
}
