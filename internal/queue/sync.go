package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/ruancarvalho/pedidosync-backend/internal/orders"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
	"github.com/ruancarvalho/pedidosync-backend/pkg/metrics"
)

const (
	defaultInterval = 5 * time.Second
	workerName      = "queue-sync"
)

type scanRegistrar interface {
	RegisterScan(ctx context.Context, code, operator, requester string) orders.ScanResult
}

// ServiceParams configure the queue sync service.
type ServiceParams struct {
	Logger   *logger.Logger
	Store    *Store
	Orders   scanRegistrar
	Metrics  *metrics.SyncMetrics
	Interval time.Duration
	Operator string
}

// Service drains the offline scan queue on a fixed cadence. Entries that
// publish successfully are dropped from the file; failures stay for the next
// cycle with no backoff.
type Service struct {
	logg     *logger.Logger
	store    *Store
	orders   scanRegistrar
	metrics  *metrics.SyncMetrics
	interval time.Duration
	operator string
}

// NewService builds a queue sync service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("queue store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	operator := params.Operator
	if operator == "" {
		operator = "Pedido Mobile"
	}
	return &Service{
		logg:     params.Logger,
		store:    params.Store,
		orders:   params.Orders,
		metrics:  params.Metrics,
		interval: interval,
		operator: operator,
	}, nil
}

// Run starts the sync loop until the context is canceled. The first cycle
// runs immediately so a restart drains backlog without waiting a tick.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.RunCycle(ctx); err != nil {
		s.logg.Error(ctx, "queue sync cycle failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "queue sync context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunCycle(ctx); err != nil {
				s.logg.Error(ctx, "queue sync cycle failed", err)
			}
		}
	}
}

// RunCycle drains the queue once. The queue file is rewritten with only the
// entries that still need publishing.
func (s *Service) RunCycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		s.metrics.ObserveCycle(workerName, time.Since(start))
	}()

	entries := s.store.Load()
	if len(entries) == 0 {
		return nil
	}
	cycleCtx := s.logg.WithField(ctx, "pending", len(entries))
	s.logg.Info(cycleCtx, "queue sync starting")

	var errs error
	var retained []Entry
	for _, e := range entries {
		res := s.orders.RegisterScan(ctx, e.Code, s.operator, s.operator)
		if res.OK {
			s.metrics.IncSuccess(workerName)
			continue
		}
		s.metrics.IncFailure(workerName)
		retained = append(retained, e)
		errs = multierr.Append(errs, fmt.Errorf("scan %q: %s", e.Code, res.Message))
	}

	if err := s.store.Replace(retained); err != nil {
		errs = multierr.Append(errs, err)
	}
	doneCtx := s.logg.WithFields(ctx, map[string]any{
		"published": len(entries) - len(retained),
		"retained":  len(retained),
	})
	s.logg.Info(doneCtx, "queue sync complete")
	return errs
}

// Enqueue appends one scan to the queue with the current timestamp.
func (s *Service) Enqueue(code string) error {
	return s.store.Append(Entry{
		Code: code,
		Time: time.Now().Format(orders.TimeFormat),
	})
}
