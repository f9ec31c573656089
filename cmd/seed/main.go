// seed carga artículos y listas de materiales desde CSV a una empresa existente.
//
// Uso:
//
//	go run ./cmd/seed -company <uuid> -items items.csv -bom bom.csv [-latin1]
//
// items.csv: sku,name,unit[,description]   (con fila de cabecera)
// bom.csv:   parent_sku,component_sku,quantity_per_unit
//
// Con -latin1 los archivos se leen como ISO-8859-1 (exportes de hojas de cálculo antiguas).
// Escribe siempre en PostgreSQL con la configuración de la API (DATABASE_URL, DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

func main() {
	companyID := flag.String("company", "", "ID de la empresa destino")
	itemsPath := flag.String("items", "", "CSV de artículos")
	bomPath := flag.String("bom", "", "CSV de lista de materiales")
	latin1 := flag.Bool("latin1", false, "leer los CSV como ISO-8859-1")
	flag.Parse()

	if *companyID == "" || (*itemsPath == "" && *bomPath == "") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	var items []itemRow
	if *itemsPath != "" {
		items, err = loadFile(*itemsPath, *latin1, readItems)
		if err != nil {
			log.Fatal().Err(err).Str("file", *itemsPath).Msg("leer artículos")
		}
	}
	var lines []bomRow
	if *bomPath != "" {
		lines, err = loadFile(*bomPath, *latin1, readBOM)
		if err != nil {
			log.Fatal().Err(err).Str("file", *bomPath).Msg("leer lista de materiales")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, "manufactura-seed")
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	s := &seeder{
		items: usecase.NewItemUseCase(itemRepo),
		bom:   manufacturing.NewBOMUseCase(postgres.NewBOMRepository(pool), itemRepo, nil),
		log:   log,
	}
	rep, err := s.run(ctx, *companyID, items, lines)
	if err != nil {
		log.Fatal().Err(err).Msg("seed interrumpido")
	}
	log.Info().
		Int("items_created", rep.ItemsCreated).
		Int("items_skipped", rep.ItemsSkipped).
		Int("bom_created", rep.BOMCreated).
		Int("bom_skipped", rep.BOMSkipped).
		Msg("seed terminado")
}
