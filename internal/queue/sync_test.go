package queue

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruancarvalho/pedidosync-backend/internal/orders"
	"github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type fakeRegistrar struct {
	results map[string]orders.ScanResult
	calls   []string
}

func (f *fakeRegistrar) RegisterScan(_ context.Context, code, _, _ string) orders.ScanResult {
	f.calls = append(f.calls, code)
	if res, ok := f.results[code]; ok {
		return res
	}
	return orders.ScanResult{OK: false, Message: "Item não encontrado", Code: errors.CodeNotFound}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestSync(t *testing.T, reg *fakeRegistrar) (*Service, *Store) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "queue.json"))
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Store:    store,
		Orders:   reg,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, store
}

func TestNewServiceValidatesParams(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "queue.json"))
	if _, err := NewService(ServiceParams{Store: store, Orders: &fakeRegistrar{}}); err == nil {
		t.Error("expected error without logger")
	}
	if _, err := NewService(ServiceParams{Logger: testLogger(), Orders: &fakeRegistrar{}}); err == nil {
		t.Error("expected error without store")
	}
	if _, err := NewService(ServiceParams{Logger: testLogger(), Store: store}); err == nil {
		t.Error("expected error without order service")
	}
}

func TestRunCycleDrainsSuccesses(t *testing.T) {
	reg := &fakeRegistrar{results: map[string]orders.ScanResult{
		"SER-1": {OK: true, OrderNumber: "REQ-001"},
		"SER-2": {OK: true, OrderNumber: "REQ-002"},
	}}
	svc, store := newTestSync(t, reg)

	if err := svc.Enqueue("SER-1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Enqueue("SER-2"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected cycle error: %v", err)
	}
	if got := store.Load(); len(got) != 0 {
		t.Fatalf("queue must be empty after a clean cycle, got %+v", got)
	}
	if len(reg.calls) != 2 {
		t.Errorf("expected 2 scans, got %v", reg.calls)
	}
}

func TestRunCycleRetainsFailures(t *testing.T) {
	reg := &fakeRegistrar{results: map[string]orders.ScanResult{
		"SER-OK": {OK: true, OrderNumber: "REQ-001"},
	}}
	svc, store := newTestSync(t, reg)

	if err := svc.Enqueue("SER-OK"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Enqueue("SER-BAD"); err != nil {
		t.Fatal(err)
	}
	err := svc.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected an aggregated error for the failed entry")
	}
	got := store.Load()
	if len(got) != 1 || got[0].Code != "SER-BAD" {
		t.Fatalf("failed entry must survive the cycle, got %+v", got)
	}

	// A second cycle retries exactly the retained entry.
	reg.calls = nil
	_ = svc.RunCycle(context.Background())
	if len(reg.calls) != 1 || reg.calls[0] != "SER-BAD" {
		t.Errorf("expected retry of SER-BAD only, got %v", reg.calls)
	}
}

func TestRunCycleEmptyQueueIsQuiet(t *testing.T) {
	reg := &fakeRegistrar{}
	svc, _ := newTestSync(t, reg)
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.calls) != 0 {
		t.Errorf("no scans expected on an empty queue, got %v", reg.calls)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc, _ := newTestSync(t, &fakeRegistrar{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
