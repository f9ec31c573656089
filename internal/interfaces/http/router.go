package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	CompanyUC        *usecase.CompanyUseCase
	ModuleService    *usecase.ModuleService
	WarehouseUC      *usecase.WarehouseUseCase
	ItemUC           *usecase.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	BOMUC            *manufacturing.BOMUseCase
	RecordUC         *manufacturing.RecordUseCase
	CalculateUC      *manufacturing.CalculateUseCase
	CostSheetUC      *manufacturing.CostSheetUseCase
	JWTSecret        string
	Logger           *logger.Logger
	// HealthCheck verifica dependencias (p. ej. ping a la DB). nil = siempre sano.
	HealthCheck func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", healthHandler(deps.HealthCheck))

	api := app.Group("/api")

	// Auth y alta de empresa (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/companies/me", companyHandler.Me)

	// Los módulos se exigen por ruta: un Use sobre el mismo prefijo alcanzaría también las rutas del otro módulo.
	inv := RequireModule(entity.ModuleInventory, deps.ModuleService, log)
	mfg := RequireModule(entity.ModuleManufacturing, deps.ModuleService, log)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	productionRoles := RequireRole(entity.RoleAdmin, entity.RoleProduccion)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Inventario
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	protected.Get("/warehouses", inv, warehouseHandler.List)
	protected.Get("/warehouses/:id", inv, warehouseHandler.GetByID)
	protected.Post("/warehouses", inv, stockRoles, warehouseHandler.Create)
	protected.Put("/warehouses/:id", inv, stockRoles, warehouseHandler.Update)
	protected.Delete("/warehouses/:id", inv, adminOnly, warehouseHandler.Delete)

	itemHandler := NewItemHandler(deps.ItemUC)
	protected.Get("/items", inv, itemHandler.List)
	protected.Get("/items/:id", inv, itemHandler.GetByID)
	protected.Post("/items", inv, stockRoles, itemHandler.Create)
	protected.Put("/items/:id", inv, stockRoles, itemHandler.Update)
	protected.Delete("/items/:id", inv, adminOnly, itemHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery)
	protected.Post("/inventory/movements", inv, stockRoles, inventoryHandler.RegisterMovement)
	protected.Get("/inventory/stock/:item_id", inv, inventoryHandler.GetItemStock)
	protected.Get("/inventory/items/:item_id/movements", inv, inventoryHandler.ListItemMovements)
	protected.Get("/inventory/references/:type/:id/movements", inv, inventoryHandler.ListReferenceMovements)

	// Fabricación
	bomHandler := NewBOMHandler(deps.BOMUC)
	protected.Get("/items/:id/bom", mfg, bomHandler.Get)
	protected.Get("/items/:id/bom/export", mfg, bomHandler.Export)
	protected.Post("/items/:id/bom", mfg, productionRoles, bomHandler.AddLine)
	protected.Put("/bom/lines/:line_id", mfg, productionRoles, bomHandler.UpdateLine)
	protected.Delete("/bom/lines/:line_id", mfg, productionRoles, bomHandler.RemoveLine)

	mh := NewManufacturingHandler(deps.RecordUC, deps.CalculateUC, deps.CostSheetUC)
	protected.Get("/manufacturing/records", mfg, mh.List)
	protected.Get("/manufacturing/records/:id", mfg, mh.GetByID)
	protected.Get("/manufacturing/records/:id/preview", mfg, mh.Preview)
	protected.Get("/manufacturing/records/:id/cost-sheet", mfg, mh.CostSheet)
	protected.Post("/manufacturing/records", mfg, productionRoles, mh.Create)
	protected.Put("/manufacturing/records/:id", mfg, productionRoles, mh.Update)
	protected.Delete("/manufacturing/records/:id", mfg, productionRoles, mh.Delete)
	protected.Post("/manufacturing/records/:id/calculate", mfg, productionRoles, mh.Calculate)
}

func healthHandler(check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
