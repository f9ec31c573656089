package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// BOMRepository líneas de lista de materiales.
type BOMRepository struct{ v view }

var _ repository.BOMRepository = (*BOMRepository)(nil)

func (r *BOMRepository) Create(_ context.Context, l *entity.BOMLine) error {
	return r.v.write(func(d *data) error {
		for _, existing := range d.bom {
			if existing.CompanyID == l.CompanyID && existing.ParentItemID == l.ParentItemID &&
				existing.ComponentItemID == l.ComponentItemID && existing.DeletedAt == nil {
				return domain.ErrDuplicate
			}
		}
		d.bom[l.ID] = *l
		return nil
	})
}

func (r *BOMRepository) GetByID(_ context.Context, companyID, id string) (*entity.BOMLine, error) {
	var out *entity.BOMLine
	r.v.read(func(d *data) {
		if l, ok := d.bom[id]; ok && l.CompanyID == companyID && l.DeletedAt == nil {
			out = &l
		}
	})
	return out, nil
}

func (r *BOMRepository) Update(_ context.Context, l *entity.BOMLine) error {
	return r.v.write(func(d *data) error {
		cur, ok := d.bom[l.ID]
		if !ok || cur.CompanyID != l.CompanyID || cur.DeletedAt != nil {
			return domain.ErrNotFound
		}
		cur.QuantityPerUnit = l.QuantityPerUnit
		cur.UpdatedAt = l.UpdatedAt
		d.bom[l.ID] = cur
		return nil
	})
}

func (r *BOMRepository) SoftDelete(_ context.Context, companyID, id string, at time.Time) error {
	return r.v.write(func(d *data) error {
		l, ok := d.bom[id]
		if !ok || l.CompanyID != companyID || l.DeletedAt != nil {
			return domain.ErrNotFound
		}
		l.DeletedAt = &at
		l.UpdatedAt = at
		d.bom[id] = l
		return nil
	})
}

func (r *BOMRepository) ListByParent(_ context.Context, companyID, parentItemID string) ([]*entity.BOMLine, error) {
	out := []*entity.BOMLine{}
	r.v.read(func(d *data) {
		for _, l := range d.bom {
			if l.CompanyID == companyID && l.ParentItemID == parentItemID && l.DeletedAt == nil {
				l := l
				out = append(out, &l)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
