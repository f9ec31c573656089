package manufacturing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una única transacción con los repositorios que toca un cálculo.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	RunManufacturing(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
		recordRepo repository.ManufacturingRecordRepository,
	) error) error
}

// StockPoster mueve existencias dentro de una transacción abierta sobre filas ya bloqueadas.
// Lo implementa inventory.RegisterMovementUseCase.
type StockPoster interface {
	PostINInTx(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		stock *entity.Stock,
		item *entity.Item,
		quantity, unitCost decimal.Decimal,
		ref inventory.MovementRef,
	) error
	PostOUTInTx(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		stock *entity.Stock,
		item *entity.Item,
		quantity decimal.Decimal,
		ref inventory.MovementRef,
	) error
}

// RecordLocker serializa cálculos de una misma orden entre instancias de la API.
// release debe llamarse siempre que err sea nil.
type RecordLocker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// NoopLocker no bloquea; la transacción con SELECT FOR UPDATE sigue protegiendo los datos.
type NoopLocker struct{}

// Lock implementa RecordLocker.
func (NoopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// CostSheetLine línea de consumo con datos del componente para la hoja de costos.
type CostSheetLine struct {
	SKU  string
	Name string
	Unit string
	Line *entity.ManufacturingRecordLine
}

// CostSheetGenerator genera la hoja de costos (PDF) de una orden completada.
type CostSheetGenerator interface {
	GenerateCostSheetPDF(
		ctx context.Context,
		record *entity.ManufacturingRecord,
		company *entity.Company,
		item *entity.Item,
		lines []CostSheetLine,
	) ([]byte, error)
}

// BOMExporter exporta una lista de materiales a hoja de cálculo.
type BOMExporter interface {
	ExportBOM(ctx context.Context, bom *dto.BOMResponse) ([]byte, error)
}
