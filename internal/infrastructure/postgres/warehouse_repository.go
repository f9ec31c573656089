package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, company_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, w.ID, w.CompanyID, w.Name, w.Address, w.CreatedAt, w.UpdatedAt); err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega activa de la empresa.
func (r *WarehouseRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, company_id, name, address, created_at, updated_at
		FROM warehouses
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(&w.ID, &w.CompanyID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// Update actualiza nombre y dirección.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET name = $3, address = $4, updated_at = $5
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, w.ID, w.CompanyID, w.Name, w.Address, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista bodegas activas por nombre.
func (r *WarehouseRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	query := `
		SELECT id, company_id, name, address, created_at, updated_at
		FROM warehouses
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// SoftDelete marca deleted_at.
func (r *WarehouseRepo) SoftDelete(ctx context.Context, companyID, id string, at time.Time) error {
	return softDelete(ctx, r.q, "warehouses", companyID, id, at)
}

// softDelete marca deleted_at en una tabla con company_id; ErrNotFound si no había fila activa.
func softDelete(ctx context.Context, q Querier, table, companyID, id string, at time.Time) error {
	query := `UPDATE ` + table + ` SET deleted_at = $3, updated_at = $3
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	tag, err := q.Exec(ctx, query, id, companyID, at)
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
