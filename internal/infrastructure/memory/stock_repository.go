package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// StockRepository existencias por (artículo, bodega). Dentro de una transacción el TxRunner ya
// tiene la exclusión total, por eso GetForUpdate equivale a Get.
type StockRepository struct{ v view }

var _ repository.StockRepository = (*StockRepository)(nil)

func (r *StockRepository) Get(_ context.Context, companyID, itemID, warehouseID string) (*entity.Stock, error) {
	k := stockKey{companyID, itemID, warehouseID}
	out := &entity.Stock{CompanyID: companyID, ItemID: itemID, WarehouseID: warehouseID, Quantity: decimal.Zero}
	r.v.read(func(d *data) {
		if s, ok := d.stock[k]; ok {
			*out = s
		}
	})
	return out, nil
}

func (r *StockRepository) GetForUpdate(ctx context.Context, companyID, itemID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, companyID, itemID, warehouseID)
}

func (r *StockRepository) Upsert(_ context.Context, s *entity.Stock) error {
	return r.v.write(func(d *data) error {
		d.stock[stockKey{s.CompanyID, s.ItemID, s.WarehouseID}] = *s
		return nil
	})
}

func (r *StockRepository) ListByItem(_ context.Context, companyID, itemID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	r.v.read(func(d *data) {
		for k, s := range d.stock {
			if k.companyID != companyID || k.itemID != itemID {
				continue
			}
			// igual que el JOIN de Postgres: las bodegas eliminadas no se listan
			if w, ok := d.warehouses[k.warehouseID]; !ok || w.DeletedAt != nil {
				continue
			}
			s := s
			out = append(out, &s)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}
