package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/ruancarvalho/pedidosync-backend/internal/catalog"
	"github.com/ruancarvalho/pedidosync-backend/internal/sheets"
	"github.com/ruancarvalho/pedidosync-backend/pkg/config"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

func main() {
	csvPath := flag.String("csv", "", "path to the catalog CSV file")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "catalog-import"})

	if *csvPath == "" {
		logg.Error(context.Background(), "missing -csv flag", nil)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "catalog-import",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := sheets.Open(context.Background(), cfg.Sheets, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open spreadsheet", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ctx := logg.WithField(context.Background(), "csv", *csvPath)
	logg.Info(ctx, "importing catalog")

	if err := catalogSvc.Refresh(ctx, *csvPath); err != nil {
		logg.Error(ctx, "catalog import failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "catalog import complete")
}
