package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para artículos. Costo y existencias solo cambian con movimientos.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un artículo. SKU repetido en la empresa -> domain.ErrDuplicate.
func (uc *ItemUseCase) Create(ctx context.Context, companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.NewValidationError("sku", "obligatorio")
	}
	existing, err := uc.repo.GetByCompanyAndSKU(ctx, companyID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         sku,
		Name:        in.Name,
		Description: in.Description,
		Unit:        strings.TrimSpace(in.Unit),
		Cost:        decimal.Zero,
		OnHand:      decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// GetByID obtiene un artículo de la empresa.
func (uc *ItemUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// GetBySKU obtiene un artículo por SKU; nil si no existe.
func (uc *ItemUseCase) GetBySKU(ctx context.Context, companyID, sku string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByCompanyAndSKU(ctx, companyID, strings.TrimSpace(sku))
	if err != nil || item == nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Update actualiza datos descriptivos del artículo.
func (uc *ItemUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// List lista artículos de la empresa.
func (uc *ItemUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina lógicamente un artículo.
func (uc *ItemUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.get(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.SoftDelete(ctx, companyID, id, time.Now())
}

func (uc *ItemUseCase) get(ctx context.Context, companyID, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ToItemResponse convierte el artículo a DTO.
func ToItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:          i.ID,
		CompanyID:   i.CompanyID,
		SKU:         i.SKU,
		Name:        i.Name,
		Description: i.Description,
		Unit:        i.Unit,
		Cost:        i.Cost,
		OnHand:      i.OnHand,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
