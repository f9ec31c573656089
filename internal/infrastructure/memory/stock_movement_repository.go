package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// StockMovementRepository libro de movimientos (solo inserción).
type StockMovementRepository struct{ v view }

var _ repository.StockMovementRepository = (*StockMovementRepository)(nil)

func (r *StockMovementRepository) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.write(func(d *data) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *StockMovementRepository) ListByItem(_ context.Context, companyID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	out := r.filter(func(m entity.StockMovement) bool {
		if m.CompanyID != companyID || m.ItemID != itemID {
			return false
		}
		if from != nil && m.Date.Before(*from) {
			return false
		}
		if to != nil && m.Date.After(*to) {
			return false
		}
		return true
	})
	// Más recientes primero, como la consulta SQL.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

func (r *StockMovementRepository) ListByReference(_ context.Context, companyID, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	return r.filter(func(m entity.StockMovement) bool {
		return m.CompanyID == companyID && m.ReferenceType == referenceType && m.ReferenceID == referenceID
	}), nil
}

func (r *StockMovementRepository) filter(match func(entity.StockMovement) bool) []*entity.StockMovement {
	out := []*entity.StockMovement{}
	r.v.read(func(d *data) {
		for _, m := range d.movements {
			if match(m) {
				m := m
				out = append(out, &m)
			}
		}
	})
	return out
}
