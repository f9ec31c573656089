package manufacturing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// bakery empresa con harina, levadura y pan; el pan lleva 0.5 kg de harina y 0.02 kg de levadura.
type bakery struct {
	store     *memory.Store
	movements *inventory.RegisterMovementUseCase
	calc      *manufacturing.CalculateUseCase
	records   *manufacturing.RecordUseCase
	boms      *manufacturing.BOMUseCase

	companyID string
	userID    string
	raw       string // bodega de materia prima
	finished  string // bodega de producto terminado
	flour     string
	yeast     string
	bread     string
}

func newBakery(t *testing.T) *bakery {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	movements := inventory.NewRegisterMovementUseCase(tx, store.Items(), store.Warehouses())

	b := &bakery{
		store:     store,
		movements: movements,
		calc:      manufacturing.NewCalculateUseCase(tx, movements, store.Warehouses(), nil, nil),
		records:   manufacturing.NewRecordUseCase(store.Records(), store.Items(), store.Warehouses(), store.BOM(), store.Stock()),
		boms:      manufacturing.NewBOMUseCase(store.BOM(), store.Items(), nil),
		companyID: uuid.New().String(),
		userID:    uuid.New().String(),
	}
	now := time.Now()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: b.companyID, Name: "Panadería", NIT: "900-1", Status: "active", CreatedAt: now}))

	b.raw = b.warehouse(t, "Materia prima")
	b.finished = b.warehouse(t, "Producto terminado")
	b.flour = b.item(t, "HAR-01", "Harina", "kg")
	b.yeast = b.item(t, "LEV-01", "Levadura", "kg")
	b.bread = b.item(t, "PAN-01", "Pan", "und")

	_, err := b.boms.AddLine(ctx, b.companyID, b.bread, dto.AddBOMLineRequest{ComponentItemID: b.flour, QuantityPerUnit: d("0.5")})
	require.NoError(t, err)
	_, err = b.boms.AddLine(ctx, b.companyID, b.bread, dto.AddBOMLineRequest{ComponentItemID: b.yeast, QuantityPerUnit: d("0.02")})
	require.NoError(t, err)
	return b
}

func (b *bakery) warehouse(t *testing.T, name string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, b.store.Warehouses().Create(context.Background(), &entity.Warehouse{ID: id, CompanyID: b.companyID, Name: name}))
	return id
}

func (b *bakery) item(t *testing.T, sku, name, unit string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, b.store.Items().Create(context.Background(), &entity.Item{
		ID: id, CompanyID: b.companyID, SKU: sku, Name: name, Unit: unit,
		Cost: decimal.Zero, OnHand: decimal.Zero,
	}))
	return id
}

// receive ingresa qty de itemID a la bodega de materia prima al costo indicado.
func (b *bakery) receive(t *testing.T, itemID, qty, cost string) {
	t.Helper()
	c := d(cost)
	_, err := b.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		CompanyID: b.companyID, UserID: b.userID, ItemID: itemID, WarehouseID: b.raw,
		Type: entity.MovementTypeIN, Quantity: d(qty), UnitCost: &c,
	})
	require.NoError(t, err)
}

// draft crea una orden de pan en borrador con mano de obra 30 e indirectos 20.
func (b *bakery) draft(t *testing.T) string {
	t.Helper()
	rec, err := b.records.Create(context.Background(), b.companyID, b.userID, dto.CreateManufacturingRecordRequest{
		ItemID:                 b.bread,
		SourceWarehouseID:      b.raw,
		DestinationWarehouseID: b.finished,
		PlannedQuantity:        d("100"),
		LaborCost:              d("30"),
		OverheadCost:           d("20"),
	})
	require.NoError(t, err)
	return rec.ID
}

func (b *bakery) stock(t *testing.T, itemID, warehouseID string) decimal.Decimal {
	t.Helper()
	s, err := b.store.Stock().Get(context.Background(), b.companyID, itemID, warehouseID)
	require.NoError(t, err)
	return s.Quantity
}

func (b *bakery) onHand(t *testing.T, itemID string) decimal.Decimal {
	t.Helper()
	it, err := b.store.Items().GetByID(context.Background(), b.companyID, itemID)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.OnHand
}
