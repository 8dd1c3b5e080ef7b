package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ruancarvalho/pedidosync-backend/api/responses"
	"github.com/ruancarvalho/pedidosync-backend/api/validators"
	internalorders "github.com/ruancarvalho/pedidosync-backend/internal/orders"
	"github.com/ruancarvalho/pedidosync-backend/pkg/enums"
	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type orderService interface {
	List(ctx context.Context) ([]internalorders.Order, error)
	Detail(ctx context.Context, number string) (*internalorders.Detail, error)
	UpdateStatus(ctx context.Context, number string, status enums.OrderStatus, actor string, urgentDone bool) internalorders.Result
}

// ListOrders returns every order row; the dashboard filters client-side.
func ListOrders(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if list == nil {
			list = []internalorders.Order{}
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderDetail returns one order with its items, or 404 when the number is
// unknown.
func OrderDetail(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		number := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}
		detail, err := svc.Detail(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if detail == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "pedido "+number+" nao encontrado"))
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type statusRequest struct {
	Status     string `json:"status" validate:"required"`
	Actor      string `json:"actor" validate:"required,min=1,max=64"`
	UrgentDone bool   `json:"urgent_done"`
}

type statusResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// UpdateOrderStatus moves an order through the workflow. Business failures
// come back through the error envelope with the service's display message.
func UpdateOrderStatus(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		number := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}
		var req statusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res := svc.UpdateStatus(r.Context(), number, enums.OrderStatus(req.Status), req.Actor, req.UrgentDone)
		if !res.OK {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(res.Code, res.Message))
			return
		}
		responses.WriteSuccess(w, statusResponse{OK: true, Message: res.Message})
	}
}
