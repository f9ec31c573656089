package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la existencia actual de un artículo en una bodega (cero si no hay fila).
func (r *StockRepo) Get(ctx context.Context, companyID, itemID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT company_id, item_id, warehouse_id, quantity, updated_at
		FROM inventory_stock WHERE company_id = $1 AND item_id = $2 AND warehouse_id = $3`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, companyID, itemID, warehouseID).Scan(
		&s.CompanyID, &s.ItemID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return &entity.Stock{CompanyID: companyID, ItemID: itemID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE).
// Si la fila no existe se crea en cero primero: sin fila no habría nada que bloquear y dos
// entradas concurrentes a una bodega nueva se pisarían.
func (r *StockRepo) GetForUpdate(ctx context.Context, companyID, itemID, warehouseID string) (*entity.Stock, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO inventory_stock (company_id, item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (company_id, item_id, warehouse_id) DO NOTHING`,
		companyID, itemID, warehouseID,
	); err != nil {
		return nil, wrap("ensure stock row", err)
	}
	query := `
		SELECT company_id, item_id, warehouse_id, quantity, updated_at
		FROM inventory_stock WHERE company_id = $1 AND item_id = $2 AND warehouse_id = $3
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, companyID, itemID, warehouseID).Scan(
		&s.CompanyID, &s.ItemID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, wrap("get stock for update", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad (por empresa, artículo y bodega).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO inventory_stock (company_id, item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (company_id, item_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.CompanyID, stock.ItemID, stock.WarehouseID, stock.Quantity)
	return wrap("upsert stock", err)
}

// ListByItem lista existencias del artículo en bodegas activas.
func (r *StockRepo) ListByItem(ctx context.Context, companyID, itemID string) ([]*entity.Stock, error) {
	query := `
		SELECT s.company_id, s.item_id, s.warehouse_id, s.quantity, s.updated_at
		FROM inventory_stock s
		JOIN warehouses w ON w.id = s.warehouse_id AND w.deleted_at IS NULL
		WHERE s.company_id = $1 AND s.item_id = $2
		ORDER BY s.warehouse_id`
	rows, err := r.q.Query(ctx, query, companyID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.CompanyID, &s.ItemID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
