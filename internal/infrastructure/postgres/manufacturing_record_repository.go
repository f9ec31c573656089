package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ManufacturingRecordRepository = (*ManufacturingRecordRepo)(nil)

// ManufacturingRecordRepo órdenes de fabricación y su desglose sobre PostgreSQL.
type ManufacturingRecordRepo struct {
	q Querier
}

// NewManufacturingRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewManufacturingRecordRepository(q Querier) *ManufacturingRecordRepo {
	return &ManufacturingRecordRepo{q: q}
}

const recordColumns = `id, company_id, item_id, source_warehouse_id, destination_warehouse_id,
	planned_quantity, produced_quantity, labor_cost, overhead_cost,
	total_raw_material_cost, total_manufacturing_cost, cost_per_unit,
	status, notes, completed_at, created_by, created_at, updated_at`

func scanRecord(row rowScanner) (*entity.ManufacturingRecord, error) {
	var m entity.ManufacturingRecord
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ItemID, &m.SourceWarehouseID, &m.DestinationWarehouseID,
		&m.PlannedQuantity, &m.ProducedQuantity, &m.LaborCost, &m.OverheadCost,
		&m.TotalRawMaterialCost, &m.TotalManufacturingCost, &m.CostPerUnit,
		&m.Status, &m.Notes, &m.CompletedAt, &createdBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// Create persiste una orden.
func (r *ManufacturingRecordRepo) Create(ctx context.Context, m *entity.ManufacturingRecord) error {
	query := `INSERT INTO manufacturing_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.ItemID, m.SourceWarehouseID, m.DestinationWarehouseID,
		m.PlannedQuantity, m.ProducedQuantity, m.LaborCost, m.OverheadCost,
		m.TotalRawMaterialCost, m.TotalManufacturingCost, m.CostPerUnit,
		m.Status, m.Notes, m.CompletedAt, nullable(m.CreatedBy), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert manufacturing record: %w", err)
	}
	return nil
}

// GetByID obtiene una orden activa de la empresa.
func (r *ManufacturingRecordRepo) GetByID(ctx context.Context, companyID, id string) (*entity.ManufacturingRecord, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+` FROM manufacturing_records
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, companyID, id)
}

// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE).
func (r *ManufacturingRecordRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.ManufacturingRecord, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+` FROM manufacturing_records
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
		FOR UPDATE`, companyID, id)
}

func (r *ManufacturingRecordRepo) getOne(ctx context.Context, query, companyID, id string) (*entity.ManufacturingRecord, error) {
	m, err := scanRecord(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get manufacturing record", err)
	}
	return m, nil
}

// Update reescribe los campos editables, el costeo y el estado.
func (r *ManufacturingRecordRepo) Update(ctx context.Context, m *entity.ManufacturingRecord) error {
	query := `
		UPDATE manufacturing_records SET
			source_warehouse_id = $3, destination_warehouse_id = $4,
			planned_quantity = $5, produced_quantity = $6, labor_cost = $7, overhead_cost = $8,
			total_raw_material_cost = $9, total_manufacturing_cost = $10, cost_per_unit = $11,
			status = $12, notes = $13, completed_at = $14, updated_at = $15
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.SourceWarehouseID, m.DestinationWarehouseID,
		m.PlannedQuantity, m.ProducedQuantity, m.LaborCost, m.OverheadCost,
		m.TotalRawMaterialCost, m.TotalManufacturingCost, m.CostPerUnit,
		m.Status, m.Notes, m.CompletedAt, m.UpdatedAt,
	)
	if err != nil {
		return wrap("update manufacturing record", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes activas, más recientes primero.
func (r *ManufacturingRecordRepo) List(ctx context.Context, companyID string, f repository.ManufacturingRecordFilter) ([]*entity.ManufacturingRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM manufacturing_records
		WHERE company_id = $1 AND deleted_at IS NULL
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR item_id::text = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, companyID, f.Status, f.ItemID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing records: %w", err)
	}
	defer rows.Close()
	list := []*entity.ManufacturingRecord{}
	for rows.Next() {
		m, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manufacturing record: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SoftDelete marca deleted_at.
func (r *ManufacturingRecordRepo) SoftDelete(ctx context.Context, companyID, id string, at time.Time) error {
	return softDelete(ctx, r.q, "manufacturing_records", companyID, id, at)
}

// CreateLines inserta el desglose en un solo viaje (pgx.Batch).
func (r *ManufacturingRecordRepo) CreateLines(ctx context.Context, lines []*entity.ManufacturingRecordLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO manufacturing_record_lines
				(id, record_id, component_item_id, quantity_per_unit, required_quantity, unit_cost, total_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.RecordID, l.ComponentItemID, l.QuantityPerUnit, l.RequiredQuantity, l.UnitCost, l.TotalCost,
		)
	}
	sender, ok := r.q.(interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	})
	if !ok {
		for _, l := range lines {
			if _, err := r.q.Exec(ctx, `
				INSERT INTO manufacturing_record_lines
					(id, record_id, component_item_id, quantity_per_unit, required_quantity, unit_cost, total_cost)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				l.ID, l.RecordID, l.ComponentItemID, l.QuantityPerUnit, l.RequiredQuantity, l.UnitCost, l.TotalCost,
			); err != nil {
				return wrap("insert manufacturing record line", err)
			}
		}
		return nil
	}
	res := sender.SendBatch(ctx, batch)
	for range lines {
		if _, err := res.Exec(); err != nil {
			_ = res.Close()
			return wrap("insert manufacturing record line", err)
		}
	}
	return wrap("close batch", res.Close())
}

// ListLines devuelve el desglose de una orden.
func (r *ManufacturingRecordRepo) ListLines(ctx context.Context, recordID string) ([]*entity.ManufacturingRecordLine, error) {
	query := `
		SELECT id, record_id, component_item_id, quantity_per_unit, required_quantity, unit_cost, total_cost
		FROM manufacturing_record_lines WHERE record_id = $1
		ORDER BY component_item_id`
	rows, err := r.q.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing record lines: %w", err)
	}
	defer rows.Close()
	list := []*entity.ManufacturingRecordLine{}
	for rows.Next() {
		var l entity.ManufacturingRecordLine
		if err := rows.Scan(&l.ID, &l.RecordID, &l.ComponentItemID, &l.QuantityPerUnit, &l.RequiredQuantity, &l.UnitCost, &l.TotalCost); err != nil {
			return nil, fmt.Errorf("scan manufacturing record line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
