package usecase

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ModuleService responde qué módulos (inventario, fabricación) tiene contratados una empresa.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule informa si el módulo está activo y sin vencer.
// false sin error = no contratado; error solo ante fallos de infraestructura o nombre desconocido.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" {
		return false, domain.ErrInvalidInput
	}
	switch moduleName {
	case entity.ModuleInventory, entity.ModuleManufacturing:
	default:
		return false, domain.NewValidationError("module", "módulo desconocido %q", moduleName)
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}
