package manufacturing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	mfg "github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// RecordUseCase administra órdenes de fabricación en borrador y las consultas sobre ellas.
type RecordUseCase struct {
	recordRepo    repository.ManufacturingRecordRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	bomRepo       repository.BOMRepository
	stockRepo     repository.StockRepository
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(
	recordRepo repository.ManufacturingRecordRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	bomRepo repository.BOMRepository,
	stockRepo repository.StockRepository,
) *RecordUseCase {
	return &RecordUseCase{
		recordRepo:    recordRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		bomRepo:       bomRepo,
		stockRepo:     stockRepo,
	}
}

// Create registra una orden en borrador. El artículo y ambas bodegas deben pertenecer a la empresa.
func (uc *RecordUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateManufacturingRecordRequest) (*dto.ManufacturingRecordResponse, error) {
	if err := validateAmounts(&in.PlannedQuantity, &in.LaborCost, &in.OverheadCost); err != nil {
		return nil, err
	}
	item, err := uc.itemRepo.GetByID(ctx, companyID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewValidationError("item_id", "el artículo no existe")
	}
	if err := uc.checkWarehouses(ctx, companyID, in.SourceWarehouseID, in.DestinationWarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &entity.ManufacturingRecord{
		ID:                     uuid.New().String(),
		CompanyID:              companyID,
		ItemID:                 item.ID,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		PlannedQuantity:        in.PlannedQuantity,
		ProducedQuantity:       decimal.Zero,
		LaborCost:              in.LaborCost,
		OverheadCost:           in.OverheadCost,
		Status:                 entity.ManufacturingStatusDraft,
		Notes:                  in.Notes,
		CreatedBy:              userID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := uc.recordRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return ToRecordResponse(rec, nil), nil
}

// GetByID devuelve la orden con su desglose de consumo (vacío si aún es borrador).
func (uc *RecordUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ManufacturingRecordResponse, error) {
	rec, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.recordRepo.ListLines(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return ToRecordResponse(rec, lines), nil
}

// List lista órdenes de la empresa; status vacío = todas.
func (uc *RecordUseCase) List(ctx context.Context, companyID, status, itemID string, page dto.PageRequest) (*dto.ManufacturingRecordListResponse, error) {
	page.DefaultPage()
	if status != "" && status != entity.ManufacturingStatusDraft && status != entity.ManufacturingStatusCompleted {
		return nil, domain.NewValidationError("status", "estado desconocido %q", status)
	}
	list, err := uc.recordRepo.List(ctx, companyID, repository.ManufacturingRecordFilter{
		Status: status,
		ItemID: itemID,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ManufacturingRecordListResponse{
		Items: make([]dto.ManufacturingRecordResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, r := range list {
		out.Items = append(out.Items, *ToRecordResponse(r, nil))
	}
	return out, nil
}

// Update modifica un borrador. Una orden completada devuelve domain.ErrAlreadyCompleted.
func (uc *RecordUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateManufacturingRecordRequest) (*dto.ManufacturingRecordResponse, error) {
	rec, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if rec.IsCompleted() {
		return nil, domain.ErrAlreadyCompleted
	}
	if err := validateAmounts(in.PlannedQuantity, in.LaborCost, in.OverheadCost); err != nil {
		return nil, err
	}
	src, dst := rec.SourceWarehouseID, rec.DestinationWarehouseID
	if in.SourceWarehouseID != nil {
		src = *in.SourceWarehouseID
	}
	if in.DestinationWarehouseID != nil {
		dst = *in.DestinationWarehouseID
	}
	if src != rec.SourceWarehouseID || dst != rec.DestinationWarehouseID {
		if err := uc.checkWarehouses(ctx, companyID, src, dst); err != nil {
			return nil, err
		}
	}
	rec.SourceWarehouseID = src
	rec.DestinationWarehouseID = dst
	if in.PlannedQuantity != nil {
		rec.PlannedQuantity = *in.PlannedQuantity
	}
	if in.LaborCost != nil {
		rec.LaborCost = *in.LaborCost
	}
	if in.OverheadCost != nil {
		rec.OverheadCost = *in.OverheadCost
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	rec.UpdatedAt = time.Now()
	if err := uc.recordRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return ToRecordResponse(rec, nil), nil
}

// Delete elimina lógicamente un borrador. Las órdenes completadas ya movieron inventario y no se borran.
func (uc *RecordUseCase) Delete(ctx context.Context, companyID, id string) error {
	rec, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if rec.IsCompleted() {
		return domain.ErrAlreadyCompleted
	}
	return uc.recordRepo.SoftDelete(ctx, companyID, id, time.Now())
}

// Preview simula los pasos de explosión y verificación de existencias para producedQuantity
// sin bloquear filas ni mover inventario. Cero = cantidad planeada de la orden.
func (uc *RecordUseCase) Preview(ctx context.Context, companyID, id string, producedQuantity decimal.Decimal) (*dto.RequirementPreviewResponse, error) {
	rec, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if producedQuantity.IsZero() {
		producedQuantity = rec.PlannedQuantity
	}
	bom, err := uc.bomRepo.ListByParent(ctx, companyID, rec.ItemID)
	if err != nil {
		return nil, err
	}
	reqs, err := mfg.ComputeRequirements(bom, producedQuantity)
	if err != nil {
		return nil, err
	}
	items, err := resolveItems(rec.ItemID, reqs, func(ids []string) (map[string]*entity.Item, error) {
		return uc.itemRepo.GetByIDs(ctx, companyID, ids)
	})
	if err != nil {
		return nil, err
	}

	out := &dto.RequirementPreviewResponse{
		RecordID:                 rec.ID,
		ProducedQuantity:         producedQuantity,
		Feasible:                 true,
		EstimatedRawMaterialCost: decimal.Zero,
		Lines:                    make([]dto.RequirementLineDTO, 0, len(reqs)),
	}
	for _, r := range reqs {
		s, err := uc.stockRepo.Get(ctx, companyID, r.ComponentID, rec.SourceWarehouseID)
		if err != nil {
			return nil, err
		}
		it := items[r.ComponentID]
		line := dto.RequirementLineDTO{
			ComponentID:     r.ComponentID,
			ComponentSKU:    it.SKU,
			ComponentName:   it.Name,
			Unit:            it.Unit,
			QuantityPerUnit: r.QuantityPerUnit,
			Required:        r.Required,
			Available:       s.Quantity,
			Shortage:        decimal.Zero,
			Sufficient:      !s.Quantity.LessThan(r.Required),
			UnitCost:        it.Cost,
			TotalCost:       domain.RoundScale(r.Required.Mul(it.Cost)),
		}
		if !line.Sufficient {
			line.Shortage = r.Required.Sub(s.Quantity)
			out.Feasible = false
		}
		out.EstimatedRawMaterialCost = out.EstimatedRawMaterialCost.Add(line.TotalCost)
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

func (uc *RecordUseCase) get(ctx context.Context, companyID, id string) (*entity.ManufacturingRecord, error) {
	rec, err := uc.recordRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (uc *RecordUseCase) checkWarehouses(ctx context.Context, companyID string, ids ...string) error {
	for _, id := range ids {
		wh, err := uc.warehouseRepo.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.NewValidationError("warehouse", "la bodega %s no existe", id)
		}
	}
	return nil
}

// validateAmounts: cantidad planeada > 0, costos >= 0, todos con a lo sumo domain.Scale decimales. nil = no se modifica.
func validateAmounts(planned, labor, overhead *decimal.Decimal) error {
	if planned != nil && !planned.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("planned_quantity", "debe ser mayor que cero")
	}
	if labor != nil && labor.LessThan(decimal.Zero) {
		return domain.NewValidationError("labor_cost", "no puede ser negativo")
	}
	if overhead != nil && overhead.LessThan(decimal.Zero) {
		return domain.NewValidationError("overhead_cost", "no puede ser negativo")
	}
	for _, f := range []struct {
		name  string
		value *decimal.Decimal
	}{{"planned_quantity", planned}, {"labor_cost", labor}, {"overhead_cost", overhead}} {
		if f.value == nil {
			continue
		}
		if err := domain.CheckScale(f.name, *f.value); err != nil {
			return err
		}
	}
	return nil
}

// ToRecordResponse convierte la orden y su desglose a DTO.
func ToRecordResponse(r *entity.ManufacturingRecord, lines []*entity.ManufacturingRecordLine) *dto.ManufacturingRecordResponse {
	out := &dto.ManufacturingRecordResponse{
		ID:                     r.ID,
		CompanyID:              r.CompanyID,
		ItemID:                 r.ItemID,
		SourceWarehouseID:      r.SourceWarehouseID,
		DestinationWarehouseID: r.DestinationWarehouseID,
		PlannedQuantity:        r.PlannedQuantity,
		ProducedQuantity:       r.ProducedQuantity,
		LaborCost:              r.LaborCost,
		OverheadCost:           r.OverheadCost,
		TotalRawMaterialCost:   r.TotalRawMaterialCost,
		TotalManufacturingCost: r.TotalManufacturingCost,
		CostPerUnit:            r.CostPerUnit,
		Status:                 r.Status,
		Notes:                  r.Notes,
		CompletedAt:            r.CompletedAt,
		CreatedBy:              r.CreatedBy,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.ManufacturingLineResponse{
			ComponentItemID:  l.ComponentItemID,
			QuantityPerUnit:  l.QuantityPerUnit,
			RequiredQuantity: l.RequiredQuantity,
			UnitCost:         l.UnitCost,
			TotalCost:        l.TotalCost,
		})
	}
	return out
}
