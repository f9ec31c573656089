package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

type fixture struct {
	store   *memory.Store
	uc      *inventory.RegisterMovementUseCase
	query   *inventory.StockQueryUseCase
	company string
	whA     string
	whB     string
	item    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	f := &fixture{
		store:   store,
		uc:      inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), store.Items(), store.Warehouses()),
		query:   inventory.NewStockQueryUseCase(store.Items(), store.Stock(), store.Movements()),
		company: uuid.New().String(),
		whA:     uuid.New().String(),
		whB:     uuid.New().String(),
		item:    uuid.New().String(),
	}
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: f.whA, CompanyID: f.company, Name: "A"}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: f.whB, CompanyID: f.company, Name: "B"}))
	require.NoError(t, store.Items().Create(ctx, &entity.Item{ID: f.item, CompanyID: f.company, SKU: "HAR", Name: "Harina", Unit: "kg"}))
	return f
}

func (f *fixture) move(in inventory.MovementInputDTO) error {
	in.CompanyID = f.company
	in.ItemID = f.item
	_, err := f.uc.RegisterMovement(context.Background(), in)
	return err
}

func (f *fixture) itemState(t *testing.T) *entity.Item {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), f.company, f.item)
	require.NoError(t, err)
	return it
}

func TestRegisterMovement_INPromediaCosto(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("10"), UnitCost: d("2")}))
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whB, Quantity: *d("30"), UnitCost: d("4")}))

	it := f.itemState(t)
	assert.True(t, it.OnHand.Equal(*d("40")))
	// (10*2 + 30*4) / 40 = 3.5
	assert.True(t, it.Cost.Equal(*d("3.5")), it.Cost.String())
}

func TestRegisterMovement_OUTSinExistencia(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("5"), UnitCost: d("1")}))

	err := f.move(inventory.MovementInputDTO{Type: entity.MovementTypeOUT, WarehouseID: f.whA, Quantity: *d("6")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.itemState(t).OnHand.Equal(*d("5")))

	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeOUT, WarehouseID: f.whA, Quantity: *d("5")}))
	assert.True(t, f.itemState(t).OnHand.IsZero())
}

func TestRegisterMovement_Transfer(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("8"), UnitCost: d("1")}))
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeTRANSFER, FromWarehouseID: f.whA, ToWarehouseID: f.whB, Quantity: *d("3")}))

	stock, err := f.query.GetItemStock(context.Background(), f.company, f.item)
	require.NoError(t, err)
	assert.True(t, stock.OnHand.Equal(*d("8")))
	byWh := map[string]decimal.Decimal{}
	for _, w := range stock.Warehouses {
		byWh[w.WarehouseID] = w.Quantity
	}
	assert.True(t, byWh[f.whA].Equal(*d("5")))
	assert.True(t, byWh[f.whB].Equal(*d("3")))

	err = f.move(inventory.MovementInputDTO{Type: entity.MovementTypeTRANSFER, FromWarehouseID: f.whA, ToWarehouseID: f.whB, Quantity: *d("50")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegisterMovement_Adjustment(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("4"), UnitCost: d("2")}))
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeADJUSTMENT, WarehouseID: f.whA, Quantity: *d("-1")}))
	assert.True(t, f.itemState(t).OnHand.Equal(*d("3")))

	err := f.move(inventory.MovementInputDTO{Type: entity.MovementTypeADJUSTMENT, WarehouseID: f.whA, Quantity: *d("-10")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   inventory.MovementInputDTO
		want error
	}{
		{"IN sin costo", inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("1")}, domain.ErrInvalidInput},
		{"OUT cantidad cero", inventory.MovementInputDTO{Type: entity.MovementTypeOUT, WarehouseID: f.whA, Quantity: decimal.Zero}, domain.ErrInvalidInput},
		{"transferencia misma bodega", inventory.MovementInputDTO{Type: entity.MovementTypeTRANSFER, FromWarehouseID: f.whA, ToWarehouseID: f.whA, Quantity: *d("1")}, domain.ErrInvalidInput},
		{"tipo desconocido", inventory.MovementInputDTO{Type: "X", WarehouseID: f.whA, Quantity: *d("1")}, domain.ErrInvalidInput},
		{"bodega de otra empresa", inventory.MovementInputDTO{Type: entity.MovementTypeOUT, WarehouseID: uuid.New().String(), Quantity: *d("1")}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, f.move(tc.in), tc.want)
		})
	}
}

func TestStockQuery_ListaMovimientos(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.RegisterMovementFromRequest(context.Background(), f.company, "u1", dto.RegisterMovementRequest{
		ItemID: f.item, WarehouseID: f.whA, Type: entity.MovementTypeIN, Quantity: *d("2"), UnitCost: d("5"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.TransactionID)

	list, err := f.query.ListItemMovements(context.Background(), f.company, f.item, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	m := list.Items[0]
	assert.Equal(t, resp.TransactionID, m.TransactionID)
	assert.Equal(t, entity.ReferenceManual, m.ReferenceType)
	assert.True(t, m.TotalCost.Equal(*d("10")))
	assert.Equal(t, 20, list.Page.Limit)

	_, err = f.query.ListItemMovements(context.Background(), uuid.New().String(), f.item, nil, nil, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_RechazaMasDeSeisDecimales(t *testing.T) {
	f := newFixture(t)

	err := f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("1.0000001"), UnitCost: d("1")})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	err = f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("1"), UnitCost: d("0.0000001")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit_cost", verr.Field)
	assert.True(t, f.itemState(t).OnHand.IsZero())
}

func TestGetItemStock_OmiteBodegaEliminada(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whA, Quantity: *d("4"), UnitCost: d("1")}))
	require.NoError(t, f.move(inventory.MovementInputDTO{Type: entity.MovementTypeIN, WarehouseID: f.whB, Quantity: *d("6"), UnitCost: d("1")}))
	require.NoError(t, f.store.Warehouses().SoftDelete(context.Background(), f.company, f.whB, time.Now()))

	stock, err := f.query.GetItemStock(context.Background(), f.company, f.item)
	require.NoError(t, err)
	require.Len(t, stock.Warehouses, 1)
	assert.Equal(t, f.whA, stock.Warehouses[0].WarehouseID)
}
