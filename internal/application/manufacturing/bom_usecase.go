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

// BOMUseCase mantiene la lista de materiales de los artículos fabricados.
type BOMUseCase struct {
	bomRepo  repository.BOMRepository
	itemRepo repository.ItemRepository
	exporter BOMExporter
}

// NewBOMUseCase construye el caso de uso. exporter puede ser nil si no se exporta.
func NewBOMUseCase(bomRepo repository.BOMRepository, itemRepo repository.ItemRepository, exporter BOMExporter) *BOMUseCase {
	return &BOMUseCase{bomRepo: bomRepo, itemRepo: itemRepo, exporter: exporter}
}

// AddLine agrega un componente al artículo parentID.
// Rechaza componente = padre, cantidades <= 0 y aristas que cierren un ciclo; duplicado -> domain.ErrDuplicate.
func (uc *BOMUseCase) AddLine(ctx context.Context, companyID, parentID string, in dto.AddBOMLineRequest) (*dto.BOMLineResponse, error) {
	if !in.QuantityPerUnit.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity_per_unit", "debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity_per_unit", in.QuantityPerUnit); err != nil {
		return nil, err
	}
	if parentID == in.ComponentItemID {
		return nil, domain.NewValidationError("component_item_id", "un artículo no puede ser componente de sí mismo")
	}
	items, err := uc.itemRepo.GetByIDs(ctx, companyID, []string{parentID, in.ComponentItemID})
	if err != nil {
		return nil, err
	}
	if items[parentID] == nil {
		return nil, domain.ErrNotFound
	}
	component := items[in.ComponentItemID]
	if component == nil {
		return nil, domain.NewValidationError("component_item_id", "el componente no existe")
	}

	cycle, err := mfg.CreatesCycle(parentID, component.ID, func(id string) ([]string, error) {
		lines, err := uc.bomRepo.ListByParent(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ComponentItemID)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	if cycle {
		return nil, domain.NewValidationError("component_item_id", "la lista de materiales quedaría circular")
	}

	now := time.Now()
	line := &entity.BOMLine{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		ParentItemID:    parentID,
		ComponentItemID: component.ID,
		QuantityPerUnit: in.QuantityPerUnit,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.bomRepo.Create(ctx, line); err != nil {
		return nil, err
	}
	resp := toBOMLineResponse(line, component)
	return &resp, nil
}

// UpdateLine cambia la cantidad por unidad de una línea.
func (uc *BOMUseCase) UpdateLine(ctx context.Context, companyID, lineID string, in dto.UpdateBOMLineRequest) (*dto.BOMLineResponse, error) {
	if !in.QuantityPerUnit.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity_per_unit", "debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity_per_unit", in.QuantityPerUnit); err != nil {
		return nil, err
	}
	line, err := uc.bomRepo.GetByID(ctx, companyID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	line.QuantityPerUnit = in.QuantityPerUnit
	line.UpdatedAt = time.Now()
	if err := uc.bomRepo.Update(ctx, line); err != nil {
		return nil, err
	}
	component, err := uc.itemRepo.GetByID(ctx, companyID, line.ComponentItemID)
	if err != nil {
		return nil, err
	}
	resp := toBOMLineResponse(line, component)
	return &resp, nil
}

// RemoveLine elimina lógicamente una línea.
func (uc *BOMUseCase) RemoveLine(ctx context.Context, companyID, lineID string) error {
	line, err := uc.bomRepo.GetByID(ctx, companyID, lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	return uc.bomRepo.SoftDelete(ctx, companyID, lineID, time.Now())
}

// GetBOM devuelve la lista de materiales de parentID con el costo de materia prima por unidad.
func (uc *BOMUseCase) GetBOM(ctx context.Context, companyID, parentID string) (*dto.BOMResponse, error) {
	parent, err := uc.itemRepo.GetByID(ctx, companyID, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.bomRepo.ListByParent(ctx, companyID, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ComponentItemID)
	}
	components, err := uc.itemRepo.GetByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	out := &dto.BOMResponse{
		ParentItemID:     parent.ID,
		ParentSKU:        parent.SKU,
		ParentName:       parent.Name,
		Lines:            make([]dto.BOMLineResponse, 0, len(lines)),
		UnitMaterialCost: decimal.Zero,
	}
	for _, l := range lines {
		resp := toBOMLineResponse(l, components[l.ComponentItemID])
		out.UnitMaterialCost = out.UnitMaterialCost.Add(domain.RoundScale(l.QuantityPerUnit.Mul(resp.UnitCost)))
		out.Lines = append(out.Lines, resp)
	}
	return out, nil
}

// Export genera el archivo de la lista de materiales de parentID.
func (uc *BOMUseCase) Export(ctx context.Context, companyID, parentID string) ([]byte, error) {
	if uc.exporter == nil {
		return nil, domain.ErrInvalidInput
	}
	bom, err := uc.GetBOM(ctx, companyID, parentID)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportBOM(ctx, bom)
}

// toBOMLineResponse: component puede ser nil si fue eliminado después de crear la línea.
func toBOMLineResponse(l *entity.BOMLine, component *entity.Item) dto.BOMLineResponse {
	out := dto.BOMLineResponse{
		ID:              l.ID,
		ParentItemID:    l.ParentItemID,
		ComponentItemID: l.ComponentItemID,
		QuantityPerUnit: l.QuantityPerUnit,
		UnitCost:        decimal.Zero,
		CreatedAt:       l.CreatedAt,
	}
	if component != nil {
		out.ComponentSKU = component.SKU
		out.ComponentName = component.Name
		out.Unit = component.Unit
		out.UnitCost = component.Cost
	}
	return out
}
