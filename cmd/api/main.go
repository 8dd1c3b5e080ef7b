package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/ruancarvalho/pedidosync-backend/api/routes"
	"github.com/ruancarvalho/pedidosync-backend/internal/catalog"
	"github.com/ruancarvalho/pedidosync-backend/internal/orders"
	"github.com/ruancarvalho/pedidosync-backend/internal/sequence"
	"github.com/ruancarvalho/pedidosync-backend/internal/sheets"
	"github.com/ruancarvalho/pedidosync-backend/pkg/config"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	allocator, err := sequence.New(store, orders.TableOrders, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sequence allocator", err)
		os.Exit(1)
	}
	orderSvc := orders.NewService(orders.NewRepository(store, logg), catalogSvc, allocator, cfg.Orders.Prefix, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, store, orderSvc, catalogSvc),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
