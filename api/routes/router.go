package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ruancarvalho/pedidosync-backend/api/controllers"
	"github.com/ruancarvalho/pedidosync-backend/api/middleware"
	"github.com/ruancarvalho/pedidosync-backend/internal/catalog"
	"github.com/ruancarvalho/pedidosync-backend/internal/orders"
	"github.com/ruancarvalho/pedidosync-backend/pkg/config"
	"github.com/ruancarvalho/pedidosync-backend/pkg/enums"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type orderService interface {
	List(ctx context.Context) ([]orders.Order, error)
	Detail(ctx context.Context, number string) (*orders.Detail, error)
	UpdateStatus(ctx context.Context, number string, status enums.OrderStatus, actor string, urgentDone bool) orders.Result
	RegisterScan(ctx context.Context, code, operator, requester string) orders.ScanResult
}

type catalogService interface {
	Lookup(ctx context.Context, code string) (*catalog.Item, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store pinger,
	orderSvc orderService,
	catalogSvc catalogService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.Healthz(cfg, store, logg))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireSharedSecret(logg, cfg.API.SharedSecret))

		r.Post("/scans", controllers.RegisterScan(orderSvc, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(orderSvc, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderSvc, logg))
			r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(orderSvc, logg))
		})
		r.Get("/catalog/{serial}", controllers.CatalogLookup(catalogSvc, logg))
	})

	return r
}
