package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, sku, name, description, unit, cost, on_hand, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Description, &it.Unit,
		&it.Cost, &it.OnHand, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un artículo. SKU repetido entre activos -> domain.ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, it.ID, it.CompanyID, it.SKU, it.Name, it.Description, it.Unit,
		it.Cost, it.OnHand, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo activo de la empresa.
func (r *ItemRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
		FOR UPDATE`, id, companyID)
}

// GetByCompanyAndSKU obtiene un artículo activo por SKU.
func (r *ItemRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items
		WHERE company_id = $1 AND sku = $2 AND deleted_at IS NULL`, companyID, sku)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get item", err)
	}
	return it, nil
}

// GetByIDs obtiene varios artículos activos; los ausentes no figuran en el mapa.
func (r *ItemRepo) GetByIDs(ctx context.Context, companyID string, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE company_id = $1 AND id = ANY($2::uuid[]) AND deleted_at IS NULL`
	rows, err := r.q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[it.ID] = it
	}
	return out, rows.Err()
}

// Update actualiza datos descriptivos. Costo y total solo cambian con UpdateCost/AdjustOnHand.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET name = $3, description = $4, unit = $5, updated_at = $6
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, it.ID, it.CompanyID, it.Name, it.Description, it.Unit, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza el costo promedio.
func (r *ItemRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE items SET cost = $2, updated_at = now() WHERE id = $1`, id, cost)
	return wrap("update item cost", err)
}

// AdjustOnHand suma delta al total en una sola sentencia.
func (r *ItemRepo) AdjustOnHand(ctx context.Context, id string, delta decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE items SET on_hand = on_hand + $2, updated_at = now() WHERE id = $1`, id, delta)
	return wrap("adjust item on_hand", err)
}

// ListByCompany lista artículos activos por SKU.
func (r *ItemRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY sku
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// SoftDelete marca deleted_at.
func (r *ItemRepo) SoftDelete(ctx context.Context, companyID, id string, at time.Time) error {
	return softDelete(ctx, r.q, "items", companyID, id, at)
}
