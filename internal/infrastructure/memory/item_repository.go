package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ItemRepository artículos.
type ItemRepository struct{ v view }

var _ repository.ItemRepository = (*ItemRepository)(nil)

func (r *ItemRepository) Create(_ context.Context, it *entity.Item) error {
	return r.v.write(func(d *data) error {
		for _, existing := range d.items {
			if existing.CompanyID == it.CompanyID && existing.SKU == it.SKU && existing.DeletedAt == nil {
				return domain.ErrDuplicate
			}
		}
		d.items[it.ID] = *it
		return nil
	})
}

func (r *ItemRepository) GetByID(_ context.Context, companyID, id string) (*entity.Item, error) {
	var out *entity.Item
	r.v.read(func(d *data) {
		if it, ok := d.items[id]; ok && it.CompanyID == companyID && it.DeletedAt == nil {
			out = &it
		}
	})
	return out, nil
}

func (r *ItemRepository) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Item, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *ItemRepository) GetByIDs(_ context.Context, companyID string, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	r.v.read(func(d *data) {
		for _, id := range ids {
			if it, ok := d.items[id]; ok && it.CompanyID == companyID && it.DeletedAt == nil {
				it := it
				out[id] = &it
			}
		}
	})
	return out, nil
}

func (r *ItemRepository) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Item, error) {
	var out *entity.Item
	r.v.read(func(d *data) {
		for _, it := range d.items {
			if it.CompanyID == companyID && it.SKU == sku && it.DeletedAt == nil {
				it := it
				out = &it
				return
			}
		}
	})
	return out, nil
}

// Update no toca costo ni existencias: esos campos solo cambian vía UpdateCost/AdjustOnHand.
func (r *ItemRepository) Update(_ context.Context, it *entity.Item) error {
	return r.v.write(func(d *data) error {
		cur, ok := d.items[it.ID]
		if !ok || cur.CompanyID != it.CompanyID || cur.DeletedAt != nil {
			return domain.ErrNotFound
		}
		cur.Name = it.Name
		cur.Description = it.Description
		cur.Unit = it.Unit
		cur.UpdatedAt = it.UpdatedAt
		d.items[it.ID] = cur
		return nil
	})
}

func (r *ItemRepository) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.v.write(func(d *data) error {
		cur, ok := d.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Cost = cost
		d.items[id] = cur
		return nil
	})
}

func (r *ItemRepository) AdjustOnHand(_ context.Context, id string, delta decimal.Decimal) error {
	return r.v.write(func(d *data) error {
		cur, ok := d.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.OnHand = cur.OnHand.Add(delta)
		d.items[id] = cur
		return nil
	})
}

func (r *ItemRepository) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	var all []*entity.Item
	r.v.read(func(d *data) {
		for _, it := range d.items {
			if it.CompanyID == companyID && it.DeletedAt == nil {
				it := it
				all = append(all, &it)
			}
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	return page(all, limit, offset), nil
}

func (r *ItemRepository) SoftDelete(_ context.Context, companyID, id string, at time.Time) error {
	return r.v.write(func(d *data) error {
		it, ok := d.items[id]
		if !ok || it.CompanyID != companyID || it.DeletedAt != nil {
			return domain.ErrNotFound
		}
		it.DeletedAt = &at
		it.UpdatedAt = at
		d.items[id] = it
		return nil
	})
}
