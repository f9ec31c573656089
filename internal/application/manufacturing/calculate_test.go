package manufacturing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Faltantes: todo o nada
// ─────────────────────────────────────────────────────────────────────────────

func TestCalculate_Faltante_NoMueveInventario(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "40", "2")
	b.receive(t, b.yeast, "1", "10")
	recordID := b.draft(t)

	_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var shortage *domain.ShortageError
	require.True(t, errors.As(err, &shortage))

	byID := map[string]domain.Shortage{}
	for _, s := range shortage.Shortages {
		byID[s.ComponentID] = s
	}
	flour := byID[b.flour]
	assert.True(t, flour.Required.Equal(d("50")))
	assert.True(t, flour.Available.Equal(d("40")))
	assert.True(t, flour.Missing.Equal(d("10")))
	assert.Equal(t, "HAR-01", flour.ComponentSKU)
	assert.Equal(t, "kg", flour.Unit)
	// 0.02 * 100 = 2 kg de levadura contra 1 kg disponible.
	assert.True(t, byID[b.yeast].Missing.Equal(d("1")))

	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("40")))
	assert.True(t, b.stock(t, b.yeast, b.raw).Equal(d("1")))
	assert.True(t, b.stock(t, b.bread, b.finished).IsZero())
	assert.True(t, b.onHand(t, b.bread).IsZero())

	rec, err := b.records.GetByID(context.Background(), b.companyID, recordID)
	require.NoError(t, err)
	assert.Equal(t, entity.ManufacturingStatusDraft, rec.Status)
	assert.Empty(t, rec.Lines)

	movs, err := b.store.Movements().ListByReference(context.Background(), b.companyID, entity.ReferenceManufacturing, recordID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestCalculate_FaltanteSoloHarina_LevaduraSuficiente(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "40", "2")
	b.receive(t, b.yeast, "3", "10")
	recordID := b.draft(t)

	_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))

	var shortage *domain.ShortageError
	require.True(t, errors.As(err, &shortage))
	require.Len(t, shortage.Shortages, 1)
	assert.Equal(t, b.flour, shortage.Shortages[0].ComponentID)
	assert.True(t, shortage.Shortages[0].Missing.Equal(d("10")))
	assert.True(t, b.stock(t, b.yeast, b.raw).Equal(d("3")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Corrida exitosa
// ─────────────────────────────────────────────────────────────────────────────

func TestCalculate_Exitoso_MueveInventarioYCostea(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "60", "2")
	b.receive(t, b.yeast, "3", "10")
	recordID := b.draft(t)

	rec, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))
	require.NoError(t, err)

	assert.Equal(t, entity.ManufacturingStatusCompleted, rec.Status)
	assert.NotNil(t, rec.CompletedAt)
	assert.True(t, rec.ProducedQuantity.Equal(d("100")))
	// 50 * 2 + 2 * 10 = 120; + 30 + 20 = 170; / 100 = 1.7
	assert.True(t, rec.TotalRawMaterialCost.Equal(d("120")), rec.TotalRawMaterialCost.String())
	assert.True(t, rec.TotalManufacturingCost.Equal(d("170")))
	assert.True(t, rec.CostPerUnit.Equal(d("1.7")))
	assert.True(t, rec.TotalManufacturingCost.Equal(rec.TotalRawMaterialCost.Add(rec.LaborCost).Add(rec.OverheadCost)))
	require.Len(t, rec.Lines, 2)

	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("10")))
	assert.True(t, b.stock(t, b.yeast, b.raw).Equal(d("1")))
	assert.True(t, b.stock(t, b.bread, b.finished).Equal(d("100")))
	assert.True(t, b.onHand(t, b.flour).Equal(d("10")))
	assert.True(t, b.onHand(t, b.bread).Equal(d("100")))

	bread, err := b.store.Items().GetByID(context.Background(), b.companyID, b.bread)
	require.NoError(t, err)
	assert.True(t, bread.Cost.Equal(d("1.7")))

	movs, err := b.store.Movements().ListByReference(context.Background(), b.companyID, entity.ReferenceManufacturing, recordID)
	require.NoError(t, err)
	var outs, ins int
	txIDs := map[string]bool{}
	for _, m := range movs {
		txIDs[m.TransactionID] = true
		switch m.Type {
		case entity.MovementTypeOUT:
			outs++
			assert.True(t, m.Quantity.IsNegative())
			assert.Equal(t, b.raw, m.WarehouseID)
		case entity.MovementTypeIN:
			ins++
			assert.Equal(t, b.bread, m.ItemID)
			assert.Equal(t, b.finished, m.WarehouseID)
			assert.True(t, m.UnitCost.Equal(d("1.7")))
		}
	}
	assert.Equal(t, 2, outs)
	assert.Equal(t, 1, ins)
	assert.Len(t, txIDs, 1)
}

func TestCalculate_DivisionNoExacta(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "60", "2")
	b.receive(t, b.yeast, "3", "10")
	recordID := b.draft(t)

	rec, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("3"))
	require.NoError(t, err)

	// 1.5*2 + 0.06*10 = 3.6; + 50 = 53.6; / 3 = 17.8666... guardado con seis decimales
	assert.True(t, rec.TotalManufacturingCost.Equal(d("53.6")))
	assert.Equal(t, "17.866667", rec.CostPerUnit.String())
}

// ─────────────────────────────────────────────────────────────────────────────
// Una sola vez
// ─────────────────────────────────────────────────────────────────────────────

func TestCalculate_SegundaVez_RechazaSinDescontar(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "200", "2")
	b.receive(t, b.yeast, "10", "10")
	recordID := b.draft(t)

	_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))
	require.NoError(t, err)

	_, err = b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("150")))
	assert.True(t, b.stock(t, b.bread, b.finished).Equal(d("100")))
	movs, err := b.store.Movements().ListByReference(context.Background(), b.companyID, entity.ReferenceManufacturing, recordID)
	require.NoError(t, err)
	assert.Len(t, movs, 3)
}

func TestCalculate_Concurrente_SoloUnoCompleta(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "200", "2")
	b.receive(t, b.yeast, "10", "10")
	recordID := b.draft(t)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	}
	assert.Equal(t, 1, ok)
	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("150")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Validaciones y errores
// ─────────────────────────────────────────────────────────────────────────────

func TestCalculate_CantidadInvalida(t *testing.T) {
	b := newBakery(t)
	recordID := b.draft(t)
	for _, q := range []string{"0", "-5"} {
		_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d(q))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, q)
	}
}

func TestCalculate_OrdenInexistenteOTraEmpresa(t *testing.T) {
	b := newBakery(t)
	recordID := b.draft(t)

	_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, uuid.New().String(), d("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = b.calc.Calculate(context.Background(), uuid.New().String(), b.userID, recordID, d("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculate_OrdenEliminada(t *testing.T) {
	b := newBakery(t)
	recordID := b.draft(t)
	require.NoError(t, b.records.Delete(context.Background(), b.companyID, recordID))

	_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculate_SinListaDeMateriales(t *testing.T) {
	b := newBakery(t)
	cake := b.item(t, "TOR-01", "Torta", "und")
	rec, err := b.records.Create(context.Background(), b.companyID, b.userID, dto.CreateManufacturingRecordRequest{
		ItemID: cake, SourceWarehouseID: b.raw, DestinationWarehouseID: b.finished, PlannedQuantity: d("1"),
	})
	require.NoError(t, err)

	_, err = b.calc.Calculate(context.Background(), b.companyID, b.userID, rec.ID, d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculate_ComponenteEliminado(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "60", "2")
	recordID := b.draft(t)
	require.NoError(t, b.store.Items().SoftDelete(context.Background(), b.companyID, b.yeast, time.Now()))

	_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("60")))
}

func TestCalculate_BodegaEliminadaTrasElBorrador(t *testing.T) {
	cases := []struct {
		name  string
		field string
		pick  func(b *bakery) string
	}{
		{"destino", "destination_warehouse_id", func(b *bakery) string { return b.finished }},
		{"origen", "source_warehouse_id", func(b *bakery) string { return b.raw }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			b := newBakery(t)
			b.receive(t, b.flour, "60", "2")
			b.receive(t, b.yeast, "3", "10")
			recordID := b.draft(t)
			require.NoError(t, b.store.Warehouses().SoftDelete(ctx, b.companyID, tc.pick(b), time.Now()))

			_, err := b.calc.Calculate(ctx, b.companyID, b.userID, recordID, d("100"))
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)

			assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("60")))
			assert.True(t, b.stock(t, b.bread, b.finished).IsZero())
			assert.True(t, b.onHand(t, b.bread).IsZero())
			rec, err := b.records.GetByID(ctx, b.companyID, recordID)
			require.NoError(t, err)
			assert.Equal(t, entity.ManufacturingStatusDraft, rec.Status)
		})
	}
}

func TestCalculate_CantidadConMasDeSeisDecimales(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "60", "2")
	b.receive(t, b.yeast, "3", "10")
	recordID := b.draft(t)

	_, err := b.calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("1.0000001"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "produced_quantity", verr.Field)
	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("60")))
}

func TestCalculate_RequeridoRedondeadoIgualEnStockYLibro(t *testing.T) {
	ctx := context.Background()
	b := newBakery(t)
	b.receive(t, b.flour, "60", "2")
	b.receive(t, b.yeast, "3", "10")
	recordID := b.draft(t)

	// levadura: 0.02 * 0.333333 = 0.00666666 -> 0.006667
	rec, err := b.calc.Calculate(ctx, b.companyID, b.userID, recordID, d("0.333333"))
	require.NoError(t, err)

	var yeastLine *dto.ManufacturingLineResponse
	for i := range rec.Lines {
		if rec.Lines[i].ComponentItemID == b.yeast {
			yeastLine = &rec.Lines[i]
		}
	}
	require.NotNil(t, yeastLine)
	assert.Equal(t, "0.006667", yeastLine.RequiredQuantity.String())
	assert.True(t, b.stock(t, b.yeast, b.raw).Equal(d("2.993333")))

	movs, err := b.store.Movements().ListByReference(ctx, b.companyID, entity.ReferenceManufacturing, recordID)
	require.NoError(t, err)
	for _, m := range movs {
		assert.True(t, domain.FitsScale(m.Quantity), m.Quantity.String())
		assert.True(t, domain.FitsScale(m.TotalCost), m.TotalCost.String())
	}
	assert.True(t, domain.FitsScale(rec.CostPerUnit), rec.CostPerUnit.String())
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (func(), error) {
	return nil, domain.ErrConcurrencyConflict
}

func TestCalculate_BloqueoNoObtenido(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "60", "2")
	b.receive(t, b.yeast, "3", "10")
	recordID := b.draft(t)
	calc := manufacturing.NewCalculateUseCase(memory.NewTxRunner(b.store), b.movements, b.store.Warehouses(), failingLocker{}, nil)

	_, err := calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("60")))
}

// Un fallo de persistencia a mitad de la corrida deshace las salidas ya escritas.
type failingPoster struct {
	manufacturing.StockPoster
}

func (failingPoster) PostINInTx(
	context.Context,
	repository.StockMovementRepository,
	repository.StockRepository,
	repository.ItemRepository,
	*entity.Stock,
	*entity.Item,
	decimal.Decimal, decimal.Decimal,
	inventory.MovementRef,
) error {
	return errors.New("disco lleno")
}

func TestCalculate_FalloPersistencia_Rollback(t *testing.T) {
	b := newBakery(t)
	b.receive(t, b.flour, "60", "2")
	b.receive(t, b.yeast, "3", "10")
	recordID := b.draft(t)
	calc := manufacturing.NewCalculateUseCase(memory.NewTxRunner(b.store), failingPoster{b.movements}, b.store.Warehouses(), nil, nil)

	_, err := calc.Calculate(context.Background(), b.companyID, b.userID, recordID, d("100"))
	require.Error(t, err)

	assert.True(t, b.stock(t, b.flour, b.raw).Equal(d("60")))
	assert.True(t, b.stock(t, b.yeast, b.raw).Equal(d("3")))
	assert.True(t, b.onHand(t, b.flour).Equal(d("60")))
	movs, err := b.store.Movements().ListByReference(context.Background(), b.companyID, entity.ReferenceManufacturing, recordID)
	require.NoError(t, err)
	assert.Empty(t, movs)
	rec, err := b.records.GetByID(context.Background(), b.companyID, recordID)
	require.NoError(t, err)
	assert.Equal(t, entity.ManufacturingStatusDraft, rec.Status)
}
