package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// WarehouseRepository bodegas.
type WarehouseRepository struct{ v view }

var _ repository.WarehouseRepository = (*WarehouseRepository)(nil)

func (r *WarehouseRepository) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(d *data) error {
		d.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepository) GetByID(_ context.Context, companyID, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.v.read(func(d *data) {
		if w, ok := d.warehouses[id]; ok && w.CompanyID == companyID && w.DeletedAt == nil {
			out = &w
		}
	})
	return out, nil
}

func (r *WarehouseRepository) Update(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(d *data) error {
		cur, ok := d.warehouses[w.ID]
		if !ok || cur.CompanyID != w.CompanyID || cur.DeletedAt != nil {
			return domain.ErrNotFound
		}
		d.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepository) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var all []*entity.Warehouse
	r.v.read(func(d *data) {
		for _, w := range d.warehouses {
			if w.CompanyID == companyID && w.DeletedAt == nil {
				w := w
				all = append(all, &w)
			}
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *WarehouseRepository) SoftDelete(_ context.Context, companyID, id string, at time.Time) error {
	return r.v.write(func(d *data) error {
		w, ok := d.warehouses[id]
		if !ok || w.CompanyID != companyID || w.DeletedAt != nil {
			return domain.ErrNotFound
		}
		w.DeletedAt = &at
		w.UpdatedAt = at
		d.warehouses[id] = w
		return nil
	})
}

// page aplica limit/offset; limit <= 0 = sin tope.
func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
