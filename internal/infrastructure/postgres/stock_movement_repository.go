package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, transaction_id, item_id, warehouse_id, type, quantity, unit_cost, total_cost,
	reference_type, reference_id, date, created_at, created_by`

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.TransactionID, m.ItemID, m.WarehouseID, m.Type,
		m.Quantity, m.UnitCost, m.TotalCost,
		m.ReferenceType, nullable(m.ReferenceID), m.Date, m.CreatedAt, nullable(m.CreatedBy),
	)
	return wrap("create stock movement", err)
}

// ListByItem lista movimientos del artículo, más recientes primero. from/to nil = sin límite.
func (r *StockMovementRepo) ListByItem(ctx context.Context, companyID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE company_id = $1 AND item_id = $2
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date <= $4)
		ORDER BY date DESC, created_at DESC
		LIMIT $5 OFFSET $6`
	return r.list(ctx, query, companyID, itemID, from, to, limit, offset)
}

// ListByReference lista los movimientos generados por un documento (p. ej. una orden de fabricación).
func (r *StockMovementRepo) ListByReference(ctx context.Context, companyID, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE company_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY created_at, type`
	return r.list(ctx, query, companyID, referenceType, referenceID)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockMovement{}
	for rows.Next() {
		var m entity.StockMovement
		var refID, createdBy *string
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.TransactionID, &m.ItemID, &m.WarehouseID, &m.Type,
			&m.Quantity, &m.UnitCost, &m.TotalCost,
			&m.ReferenceType, &refID, &m.Date, &m.CreatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if refID != nil {
			m.ReferenceID = *refID
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
