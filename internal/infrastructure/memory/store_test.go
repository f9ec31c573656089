package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

func newItem(companyID, sku string) *entity.Item {
	return &entity.Item{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		SKU:       sku,
		Name:      sku,
		Unit:      "kg",
		Cost:      decimal.Zero,
		OnHand:    decimal.Zero,
		CreatedAt: time.Now(),
	}
}

// ─── Transacciones ──────────────────────────────────────────────────────────

func TestTxRunner_RollbackRestauraEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	company := uuid.New().String()
	item := newItem(company, "HAR-01")
	require.NoError(t, store.Items().Create(ctx, item))

	boom := errors.New("falla a mitad")
	err := tx.Run(ctx, func(_ repository.StockMovementRepository, stockRepo repository.StockRepository, itemRepo repository.ItemRepository) error {
		require.NoError(t, stockRepo.Upsert(ctx, &entity.Stock{
			CompanyID: company, ItemID: item.ID, WarehouseID: "w1", Quantity: decimal.NewFromInt(10),
		}))
		require.NoError(t, itemRepo.AdjustOnHand(ctx, item.ID, decimal.NewFromInt(10)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	st, err := store.Stock().Get(ctx, company, item.ID, "w1")
	require.NoError(t, err)
	assert.True(t, st.Quantity.IsZero())
	got, err := store.Items().GetByID(ctx, company, item.ID)
	require.NoError(t, err)
	assert.True(t, got.OnHand.IsZero())
}

func TestTxRunner_CommitPersiste(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	company := uuid.New().String()

	err := tx.Run(ctx, func(_ repository.StockMovementRepository, stockRepo repository.StockRepository, _ repository.ItemRepository) error {
		return stockRepo.Upsert(ctx, &entity.Stock{
			CompanyID: company, ItemID: "i1", WarehouseID: "w1", Quantity: decimal.NewFromInt(3),
		})
	})
	require.NoError(t, err)

	st, err := store.Stock().Get(ctx, company, "i1", "w1")
	require.NoError(t, err)
	assert.Equal(t, "3", st.Quantity.String())
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(repository.StockMovementRepository, repository.StockRepository, repository.ItemRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ─── Repositorios ───────────────────────────────────────────────────────────

func TestItemRepository_SKUDuplicadoPorEmpresa(t *testing.T) {
	ctx := context.Background()
	items := memory.NewStore().Items()
	a, b := uuid.New().String(), uuid.New().String()

	require.NoError(t, items.Create(ctx, newItem(a, "PAN-01")))
	assert.ErrorIs(t, items.Create(ctx, newItem(a, "PAN-01")), domain.ErrDuplicate)
	assert.NoError(t, items.Create(ctx, newItem(b, "PAN-01")), "otra empresa puede repetir SKU")
}

func TestBOMRepository_DuplicadoYBorrado(t *testing.T) {
	ctx := context.Background()
	bom := memory.NewStore().BOM()
	company := uuid.New().String()
	line := func() *entity.BOMLine {
		return &entity.BOMLine{
			ID: uuid.New().String(), CompanyID: company,
			ParentItemID: "pan", ComponentItemID: "harina",
			QuantityPerUnit: decimal.RequireFromString("0.5"), CreatedAt: time.Now(),
		}
	}
	first := line()
	require.NoError(t, bom.Create(ctx, first))
	assert.ErrorIs(t, bom.Create(ctx, line()), domain.ErrDuplicate)

	require.NoError(t, bom.SoftDelete(ctx, company, first.ID, time.Now()))
	assert.ErrorIs(t, bom.SoftDelete(ctx, company, first.ID, time.Now()), domain.ErrNotFound)

	// tras el borrado lógico la misma arista puede volver a crearse
	require.NoError(t, bom.Create(ctx, line()))
	lines, err := bom.ListByParent(ctx, company, "pan")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestStockRepository_SinFilaDevuelveCero(t *testing.T) {
	st, err := memory.NewStore().Stock().Get(context.Background(), "c", "i", "w")
	require.NoError(t, err)
	assert.True(t, st.Quantity.IsZero())
	assert.Equal(t, "w", st.WarehouseID)
}
