package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID devuelve (nil, nil) si no existe, es de otra empresa o fue eliminado.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del artículo: serializa el recálculo del costo promedio y del total.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Item, error)
	GetByIDs(ctx context.Context, companyID string, ids []string) (map[string]*entity.Item, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	// AdjustOnHand suma delta (puede ser negativo) al total desnormalizado del artículo.
	AdjustOnHand(ctx context.Context, id string, delta decimal.Decimal) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error)
	SoftDelete(ctx context.Context, companyID, id string, at time.Time) error
}
