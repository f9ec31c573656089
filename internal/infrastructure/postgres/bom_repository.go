package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo líneas de lista de materiales (tabla bom_items).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

const bomColumns = `id, company_id, parent_item_id, component_item_id, quantity_per_unit, created_at, updated_at`

// Create inserta una línea; el índice único parcial rechaza duplicados activos.
func (r *BOMRepo) Create(ctx context.Context, l *entity.BOMLine) error {
	query := `INSERT INTO bom_items (` + bomColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, l.ID, l.CompanyID, l.ParentItemID, l.ComponentItemID, l.QuantityPerUnit, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bom line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea activa.
func (r *BOMRepo) GetByID(ctx context.Context, companyID, id string) (*entity.BOMLine, error) {
	query := `SELECT ` + bomColumns + ` FROM bom_items
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	var l entity.BOMLine
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&l.ID, &l.CompanyID, &l.ParentItemID, &l.ComponentItemID, &l.QuantityPerUnit, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom line: %w", err)
	}
	return &l, nil
}

// Update cambia la cantidad por unidad.
func (r *BOMRepo) Update(ctx context.Context, l *entity.BOMLine) error {
	query := `
		UPDATE bom_items SET quantity_per_unit = $3, updated_at = $4
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, l.ID, l.CompanyID, l.QuantityPerUnit, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update bom line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted_at.
func (r *BOMRepo) SoftDelete(ctx context.Context, companyID, id string, at time.Time) error {
	return softDelete(ctx, r.q, "bom_items", companyID, id, at)
}

// ListByParent lista las líneas activas de un artículo en orden de creación.
func (r *BOMRepo) ListByParent(ctx context.Context, companyID, parentItemID string) ([]*entity.BOMLine, error) {
	query := `SELECT ` + bomColumns + ` FROM bom_items
		WHERE company_id = $1 AND parent_item_id = $2 AND deleted_at IS NULL
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, companyID, parentItemID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()
	list := []*entity.BOMLine{}
	for rows.Next() {
		var l entity.BOMLine
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.ParentItemID, &l.ComponentItemID, &l.QuantityPerUnit, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
