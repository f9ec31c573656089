package manufacturing

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// CostSheetUseCase arma la hoja de costos de una orden completada.
type CostSheetUseCase struct {
	recordRepo  repository.ManufacturingRecordRepository
	itemRepo    repository.ItemRepository
	companyRepo repository.CompanyRepository
	generator   CostSheetGenerator
}

// NewCostSheetUseCase construye el caso de uso.
func NewCostSheetUseCase(
	recordRepo repository.ManufacturingRecordRepository,
	itemRepo repository.ItemRepository,
	companyRepo repository.CompanyRepository,
	generator CostSheetGenerator,
) *CostSheetUseCase {
	return &CostSheetUseCase{
		recordRepo:  recordRepo,
		itemRepo:    itemRepo,
		companyRepo: companyRepo,
		generator:   generator,
	}
}

// GetCostSheetPDF devuelve el PDF. Un borrador aún no tiene costeo: domain.ErrConflict.
func (uc *CostSheetUseCase) GetCostSheetPDF(ctx context.Context, companyID, recordID string) ([]byte, error) {
	rec, err := uc.recordRepo.GetByID(ctx, companyID, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if !rec.IsCompleted() {
		return nil, domain.ErrConflict
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.recordRepo.ListLines(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	// Los artículos eliminados después de la corrida se siguen mostrando por su ID.
	ids := make([]string, 0, len(lines)+1)
	ids = append(ids, rec.ItemID)
	for _, l := range lines {
		ids = append(ids, l.ComponentItemID)
	}
	items, err := uc.itemRepo.GetByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	sheet := make([]CostSheetLine, 0, len(lines))
	for _, l := range lines {
		row := CostSheetLine{SKU: l.ComponentItemID, Line: l}
		if it := items[l.ComponentItemID]; it != nil {
			row.SKU, row.Name, row.Unit = it.SKU, it.Name, it.Unit
		}
		sheet = append(sheet, row)
	}
	return uc.generator.GenerateCostSheetPDF(ctx, rec, company, items[rec.ItemID], sheet)
}
