package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ManufacturingRecordRepository órdenes de fabricación y su desglose.
type ManufacturingRecordRepository struct{ v view }

var _ repository.ManufacturingRecordRepository = (*ManufacturingRecordRepository)(nil)

func (r *ManufacturingRecordRepository) Create(_ context.Context, rec *entity.ManufacturingRecord) error {
	return r.v.write(func(d *data) error {
		d.records[rec.ID] = *rec
		return nil
	})
}

func (r *ManufacturingRecordRepository) GetByID(_ context.Context, companyID, id string) (*entity.ManufacturingRecord, error) {
	var out *entity.ManufacturingRecord
	r.v.read(func(d *data) {
		if rec, ok := d.records[id]; ok && rec.CompanyID == companyID && rec.DeletedAt == nil {
			out = &rec
		}
	})
	return out, nil
}

func (r *ManufacturingRecordRepository) GetForUpdate(ctx context.Context, companyID, id string) (*entity.ManufacturingRecord, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *ManufacturingRecordRepository) Update(_ context.Context, rec *entity.ManufacturingRecord) error {
	return r.v.write(func(d *data) error {
		cur, ok := d.records[rec.ID]
		if !ok || cur.CompanyID != rec.CompanyID || cur.DeletedAt != nil {
			return domain.ErrNotFound
		}
		d.records[rec.ID] = *rec
		return nil
	})
}

func (r *ManufacturingRecordRepository) List(_ context.Context, companyID string, f repository.ManufacturingRecordFilter) ([]*entity.ManufacturingRecord, error) {
	all := []*entity.ManufacturingRecord{}
	r.v.read(func(d *data) {
		for _, rec := range d.records {
			if rec.CompanyID != companyID || rec.DeletedAt != nil {
				continue
			}
			if f.Status != "" && rec.Status != f.Status {
				continue
			}
			if f.ItemID != "" && rec.ItemID != f.ItemID {
				continue
			}
			rec := rec
			all = append(all, &rec)
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Limit, f.Offset), nil
}

func (r *ManufacturingRecordRepository) SoftDelete(_ context.Context, companyID, id string, at time.Time) error {
	return r.v.write(func(d *data) error {
		rec, ok := d.records[id]
		if !ok || rec.CompanyID != companyID || rec.DeletedAt != nil {
			return domain.ErrNotFound
		}
		rec.DeletedAt = &at
		rec.UpdatedAt = at
		d.records[id] = rec
		return nil
	})
}

func (r *ManufacturingRecordRepository) CreateLines(_ context.Context, lines []*entity.ManufacturingRecordLine) error {
	return r.v.write(func(d *data) error {
		for _, l := range lines {
			d.lines = append(d.lines, *l)
		}
		return nil
	})
}

func (r *ManufacturingRecordRepository) ListLines(_ context.Context, recordID string) ([]*entity.ManufacturingRecordLine, error) {
	out := []*entity.ManufacturingRecordLine{}
	r.v.read(func(d *data) {
		for _, l := range d.lines {
			if l.RecordID == recordID {
				l := l
				out = append(out, &l)
			}
		}
	})
	return out, nil
}
