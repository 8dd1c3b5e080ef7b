package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ruancarvalho/pedidosync-backend/internal/catalog"
	"github.com/ruancarvalho/pedidosync-backend/internal/orders"
	"github.com/ruancarvalho/pedidosync-backend/internal/queue"
	"github.com/ruancarvalho/pedidosync-backend/internal/sequence"
	"github.com/ruancarvalho/pedidosync-backend/internal/sheets"
	"github.com/ruancarvalho/pedidosync-backend/pkg/config"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
	"github.com/ruancarvalho/pedidosync-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
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

	service, err := queue.NewService(queue.ServiceParams{
		Logger:   logg,
		Store:    queue.NewStore(cfg.Queue.Path),
		Orders:   orderSvc,
		Metrics:  metrics.NewSyncMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Queue.Interval,
		Operator: cfg.Queue.Operator,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create queue sync service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"queue_path": cfg.Queue.Path,
	})
	logg.Info(ctx, "starting sync worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}
