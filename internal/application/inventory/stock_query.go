package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// StockQueryUseCase consultas de existencias y del libro de movimientos (solo lectura).
type StockQueryUseCase struct {
	itemRepo  repository.ItemRepository
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	itemRepo repository.ItemRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{itemRepo: itemRepo, stockRepo: stockRepo, movRepo: movRepo}
}

// GetItemStock devuelve el total del artículo y su detalle por bodega.
func (uc *StockQueryUseCase) GetItemStock(ctx context.Context, companyID, itemID string) (*dto.ItemStockResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := uc.stockRepo.ListByItem(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemStockResponse{
		ItemID:     item.ID,
		SKU:        item.SKU,
		Unit:       item.Unit,
		OnHand:     item.OnHand,
		Warehouses: make([]dto.WarehouseStockDTO, 0, len(rows)),
	}
	for _, s := range rows {
		out.Warehouses = append(out.Warehouses, dto.WarehouseStockDTO{
			WarehouseID: s.WarehouseID,
			Quantity:    s.Quantity,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return out, nil
}

// ListItemMovements lista el libro de un artículo en un rango de fechas (opcional).
func (uc *StockQueryUseCase) ListItemMovements(ctx context.Context, companyID, itemID string, from, to *time.Time, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	item, err := uc.itemRepo.GetByID(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByItem(ctx, companyID, itemID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Items: ToMovementResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListReferenceMovements lista los movimientos generados por un documento (p. ej. una orden de fabricación).
func (uc *StockQueryUseCase) ListReferenceMovements(ctx context.Context, companyID, referenceType, referenceID string) ([]dto.MovementResponse, error) {
	switch referenceType {
	case entity.ReferenceManual, entity.ReferenceManufacturing:
	default:
		return nil, domain.NewValidationError("reference_type", "tipo de referencia desconocido %q", referenceType)
	}
	if referenceID == "" {
		return nil, domain.NewValidationError("reference_id", "es requerido")
	}
	list, err := uc.movRepo.ListByReference(ctx, companyID, referenceType, referenceID)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(list), nil
}

// ToMovementResponses convierte filas del libro a DTO.
func ToMovementResponses(list []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ItemID:        m.ItemID,
			WarehouseID:   m.WarehouseID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			ReferenceType: m.ReferenceType,
			ReferenceID:   m.ReferenceID,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return out
}
