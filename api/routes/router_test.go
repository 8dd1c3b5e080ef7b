package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ruancarvalho/pedidosync-backend/internal/catalog"
	"github.com/ruancarvalho/pedidosync-backend/internal/orders"
	"github.com/ruancarvalho/pedidosync-backend/pkg/config"
	"github.com/ruancarvalho/pedidosync-backend/pkg/enums"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubOrderService struct{}

func (stubOrderService) List(context.Context) ([]orders.Order, error) { return nil, nil }

func (stubOrderService) Detail(context.Context, string) (*orders.Detail, error) { return nil, nil }

func (stubOrderService) UpdateStatus(context.Context, string, enums.OrderStatus, string, bool) orders.Result {
	return orders.Result{OK: true}
}

func (stubOrderService) RegisterScan(context.Context, string, string, string) orders.ScanResult {
	return orders.ScanResult{OK: true, OrderNumber: "REQ-001"}
}

type stubCatalogService struct{}

func (stubCatalogService) Lookup(context.Context, string) (*catalog.Item, error) {
	return &catalog.Item{Serial: "SER-1"}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.API.SharedSecret = "s3cret"
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, stubOrderService{}, stubCatalogService{})
}

func TestHealthzIsPublic(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestV1RoutesRequireAuth(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/orders"},
		{http.MethodGet, "/v1/orders/REQ-001"},
		{http.MethodGet, "/v1/catalog/SER-1"},
	}
	router := newTestRouter()
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", tc.method, tc.path, resp.Code)
		}
	}
}

func TestV1RoutesWithToken(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}
