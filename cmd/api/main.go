package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	infraexcel "github.com/jhoicas/Manufactura-api/internal/infrastructure/excel"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Manufactura-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Manufactura-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Manufactura-api/internal/interfaces/http"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

type txRunner interface {
	inventory.TxRunner
	manufacturing.TxRunner
}

// storage puertos de persistencia del driver elegido.
type storage struct {
	companies  repository.CompanyRepository
	users      repository.UserRepository
	warehouses repository.WarehouseRepository
	items      repository.ItemRepository
	stock      repository.StockRepository
	movements  repository.StockMovementRepository
	bom        repository.BOMRepository
	records    repository.ManufacturingRecordRepository
	tx         txRunner
	health     func(ctx context.Context) error
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Sin Redis la serialización por orden queda a cargo de SELECT FOR UPDATE.
	var locker manufacturing.RecordLocker
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infraredis.NewRecordLocker(rdb, cfg.Redis.LockTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo distribuido con Redis activo")
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(st.tx, st.items, st.warehouses)
	deps := httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(st.users, st.companies, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		CompanyUC:        usecase.NewCompanyUseCase(st.companies),
		ModuleService:    usecase.NewModuleService(st.companies),
		WarehouseUC:      usecase.NewWarehouseUseCase(st.warehouses),
		ItemUC:           usecase.NewItemUseCase(st.items),
		RegisterMovement: registerMovementUC,
		StockQuery:       inventory.NewStockQueryUseCase(st.items, st.stock, st.movements),
		BOMUC:            manufacturing.NewBOMUseCase(st.bom, st.items, infraexcel.NewBOMExporter()),
		RecordUC:         manufacturing.NewRecordUseCase(st.records, st.items, st.warehouses, st.bom, st.stock),
		CalculateUC:      manufacturing.NewCalculateUseCase(st.tx, registerMovementUC, st.warehouses, locker, log),
		CostSheetUC:      manufacturing.NewCostSheetUseCase(st.records, st.items, st.companies, infrapdf.NewCostSheetGenerator()),
		JWTSecret:        cfg.JWT.Secret,
		Logger:           log.Component("http"),
		HealthCheck:      st.health,
	}

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))

	// Swagger UI en /docs solo si el archivo existe.
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Manufactura API",
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			companies:  s.Companies(),
			users:      s.Users(),
			warehouses: s.Warehouses(),
			items:      s.Items(),
			stock:      s.Stock(),
			movements:  s.Movements(),
			bom:        s.BOM(),
			records:    s.Records(),
			tx:         memory.NewTxRunner(s),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}
	return &storage{
		companies:  postgres.NewCompanyRepository(pool),
		users:      postgres.NewUserRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		items:      postgres.NewItemRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		bom:        postgres.NewBOMRepository(pool),
		records:    postgres.NewManufacturingRecordRepository(pool),
		tx:         postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		health:     pool.Ping,
		close:      pool.Close,
	}, nil
}
