package manufacturing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	mfg "github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// CalculateUseCase ejecuta una corrida de producción: consume materia prima según la lista de
// materiales, ingresa el producto terminado, costea y completa la orden. Todo o nada.
type CalculateUseCase struct {
	txRunner      TxRunner
	poster        StockPoster
	warehouseRepo repository.WarehouseRepository
	locker        RecordLocker
	log           *logger.Logger
}

// NewCalculateUseCase construye el caso de uso. locker y log pueden ser nil.
func NewCalculateUseCase(txRunner TxRunner, poster StockPoster, warehouseRepo repository.WarehouseRepository, locker RecordLocker, log *logger.Logger) *CalculateUseCase {
	if locker == nil {
		locker = NoopLocker{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CalculateUseCase{
		txRunner:      txRunner,
		poster:        poster,
		warehouseRepo: warehouseRepo,
		locker:        locker,
		log:           log.Component("manufacturing.calculate"),
	}
}

// stockKey identifica una fila de inventory_stock.
type stockKey struct {
	itemID      string
	warehouseID string
}

// Calculate completa la orden recordID produciendo producedQuantity unidades.
//
// Errores: domain.ErrNotFound (orden inexistente, de otra empresa o eliminada),
// *domain.ValidationError (cantidad, lista de materiales, componentes o bodegas inválidos),
// *domain.ShortageError (faltantes; no se mueve nada), domain.ErrAlreadyCompleted,
// domain.ErrConcurrencyConflict (bloqueo no obtenido a tiempo).
func (uc *CalculateUseCase) Calculate(ctx context.Context, companyID, userID, recordID string, producedQuantity decimal.Decimal) (*dto.ManufacturingRecordResponse, error) {
	if companyID == "" || recordID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !producedQuantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("produced_quantity", "debe ser mayor que cero")
	}
	if err := domain.CheckScale("produced_quantity", producedQuantity); err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, "manufacturing:record:"+recordID)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		record *entity.ManufacturingRecord
		lines  []*entity.ManufacturingRecordLine
	)
	err = uc.txRunner.RunManufacturing(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
		recordRepo repository.ManufacturingRecordRepository,
	) error {
		// 1. Cabecera bloqueada primero: dos cálculos de la misma orden se serializan aquí.
		rec, err := recordRepo.GetForUpdate(ctx, companyID, recordID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.IsCompleted() {
			return domain.ErrAlreadyCompleted
		}
		// Las bodegas pudieron eliminarse después de crear el borrador.
		if err := uc.checkWarehouses(ctx, companyID, rec); err != nil {
			return err
		}

		// 2. Explosión de la lista de materiales.
		bom, err := bomRepo.ListByParent(ctx, companyID, rec.ItemID)
		if err != nil {
			return err
		}
		reqs, err := mfg.ComputeRequirements(bom, producedQuantity)
		if err != nil {
			return err
		}

		// 3. Bloqueo de artículos y luego filas de stock, siempre en orden determinista.
		items, err := resolveItems(rec.ItemID, reqs, func(ids []string) (map[string]*entity.Item, error) {
			return lockItems(ctx, itemRepo, companyID, ids)
		})
		if err != nil {
			return err
		}

		stocks, err := lockStocks(ctx, stockRepo, companyID, rec, reqs)
		if err != nil {
			return err
		}

		available := make(map[string]decimal.Decimal, len(reqs))
		unitCosts := make(map[string]decimal.Decimal, len(reqs))
		for _, r := range reqs {
			available[r.ComponentID] = stocks[stockKey{r.ComponentID, rec.SourceWarehouseID}].Quantity
			unitCosts[r.ComponentID] = items[r.ComponentID].Cost
		}
		if shortages := mfg.FindShortages(reqs, available); len(shortages) > 0 {
			return &domain.ShortageError{Shortages: enrichShortages(shortages, items)}
		}

		// 4. Costeo al costo promedio vigente antes de mover nada.
		summary, err := mfg.RollUpCost(reqs, unitCosts, rec.LaborCost, rec.OverheadCost, producedQuantity)
		if err != nil {
			return err
		}

		now := time.Now()
		ref := inventory.MovementRef{
			CompanyID:     companyID,
			UserID:        userID,
			TransactionID: uuid.New().String(),
			ReferenceType: entity.ReferenceManufacturing,
			ReferenceID:   rec.ID,
			Date:          now,
		}

		// 5. Una salida por componente y una entrada del producto terminado.
		for _, r := range reqs {
			stock := stocks[stockKey{r.ComponentID, rec.SourceWarehouseID}]
			if err := uc.poster.PostOUTInTx(ctx, movRepo, stockRepo, itemRepo, stock, items[r.ComponentID], r.Required, ref); err != nil {
				return err
			}
		}
		finished := stocks[stockKey{rec.ItemID, rec.DestinationWarehouseID}]
		if err := uc.poster.PostINInTx(ctx, movRepo, stockRepo, itemRepo, finished, items[rec.ItemID], producedQuantity, summary.CostPerUnit, ref); err != nil {
			return err
		}

		// 6. Completar la orden y guardar el desglose.
		rec.ProducedQuantity = producedQuantity
		rec.TotalRawMaterialCost = summary.TotalRawMaterialCost
		rec.TotalManufacturingCost = summary.TotalManufacturingCost
		rec.CostPerUnit = summary.CostPerUnit
		rec.Status = entity.ManufacturingStatusCompleted
		rec.CompletedAt = &now
		rec.UpdatedAt = now
		if err := recordRepo.Update(ctx, rec); err != nil {
			return err
		}

		recLines := make([]*entity.ManufacturingRecordLine, 0, len(summary.Lines))
		for _, l := range summary.Lines {
			recLines = append(recLines, &entity.ManufacturingRecordLine{
				ID:               uuid.New().String(),
				RecordID:         rec.ID,
				ComponentItemID:  l.ComponentID,
				QuantityPerUnit:  l.QuantityPerUnit,
				RequiredQuantity: l.Required,
				UnitCost:         l.UnitCost,
				TotalCost:        l.TotalCost,
			})
		}
		if err := recordRepo.CreateLines(ctx, recLines); err != nil {
			return err
		}

		record = rec
		lines = recLines
		return nil
	})
	if err != nil {
		var shortage *domain.ShortageError
		if errors.As(err, &shortage) {
			uc.log.Warn().
				Str("record_id", recordID).
				Str("company_id", companyID).
				Str("produced_quantity", producedQuantity.String()).
				Int("shortages", len(shortage.Shortages)).
				Msg("fabricación rechazada por faltantes")
		}
		return nil, err
	}

	uc.log.Info().
		Str("record_id", record.ID).
		Str("company_id", companyID).
		Str("produced_quantity", producedQuantity.String()).
		Str("total_cost", record.TotalManufacturingCost.String()).
		Str("cost_per_unit", record.CostPerUnit.String()).
		Msg("fabricación completada")

	return ToRecordResponse(record, lines), nil
}

// checkWarehouses exige que las bodegas origen y destino de la orden sigan activas.
func (uc *CalculateUseCase) checkWarehouses(ctx context.Context, companyID string, rec *entity.ManufacturingRecord) error {
	for _, w := range []struct{ field, id string }{
		{"source_warehouse_id", rec.SourceWarehouseID},
		{"destination_warehouse_id", rec.DestinationWarehouseID},
	} {
		wh, err := uc.warehouseRepo.GetByID(ctx, companyID, w.id)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.NewValidationError(w.field, "la bodega %s no existe o fue eliminada", w.id)
		}
	}
	return nil
}

// resolveItems carga producto terminado y componentes con load. Un componente ausente o sin unidad
// invalida la lista de materiales.
func resolveItems(finishedID string, reqs []mfg.Requirement, load func(ids []string) (map[string]*entity.Item, error)) (map[string]*entity.Item, error) {
	ids := make([]string, 0, len(reqs)+1)
	ids = append(ids, finishedID)
	for _, r := range reqs {
		ids = append(ids, r.ComponentID)
	}
	items, err := load(ids)
	if err != nil {
		return nil, err
	}
	if items[finishedID] == nil {
		return nil, domain.NewValidationError("item_id", "el artículo a fabricar no existe")
	}
	for _, r := range reqs {
		it := items[r.ComponentID]
		if it == nil {
			return nil, domain.NewValidationError("bom", "componente %s no existe", r.ComponentID)
		}
		if it.Unit == "" {
			return nil, domain.NewValidationError("bom", "componente %s sin unidad de medida", it.SKU)
		}
	}
	return items, nil
}

// lockItems bloquea los artículos en orden de ID.
func lockItems(ctx context.Context, itemRepo repository.ItemRepository, companyID string, ids []string) (map[string]*entity.Item, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make(map[string]*entity.Item, len(sorted))
	for _, id := range sorted {
		if _, ok := out[id]; ok {
			continue
		}
		it, err := itemRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		if it != nil {
			out[id] = it
		}
	}
	return out, nil
}

// lockStocks bloquea componentes en la bodega origen y el producto en la bodega destino,
// ordenando por (artículo, bodega).
func lockStocks(ctx context.Context, stockRepo repository.StockRepository, companyID string, rec *entity.ManufacturingRecord, reqs []mfg.Requirement) (map[stockKey]*entity.Stock, error) {
	keys := make([]stockKey, 0, len(reqs)+1)
	for _, r := range reqs {
		keys = append(keys, stockKey{r.ComponentID, rec.SourceWarehouseID})
	}
	keys = append(keys, stockKey{rec.ItemID, rec.DestinationWarehouseID})
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].itemID != keys[j].itemID {
			return keys[i].itemID < keys[j].itemID
		}
		return keys[i].warehouseID < keys[j].warehouseID
	})

	out := make(map[stockKey]*entity.Stock, len(keys))
	for _, k := range keys {
		if _, ok := out[k]; ok {
			continue
		}
		s, err := stockRepo.GetForUpdate(ctx, companyID, k.itemID, k.warehouseID)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func enrichShortages(shortages []domain.Shortage, items map[string]*entity.Item) []domain.Shortage {
	for i := range shortages {
		if it := items[shortages[i].ComponentID]; it != nil {
			shortages[i].ComponentSKU = it.SKU
			shortages[i].ComponentName = it.Name
			shortages[i].Unit = it.Unit
		}
	}
	return shortages
}
