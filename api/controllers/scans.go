package controllers

import (
	"context"
	"net/http"

	"github.com/ruancarvalho/pedidosync-backend/api/responses"
	"github.com/ruancarvalho/pedidosync-backend/api/validators"
	"github.com/ruancarvalho/pedidosync-backend/internal/orders"
	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type scanService interface {
	RegisterScan(ctx context.Context, code, operator, requester string) orders.ScanResult
}

type scanRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=128"`
	Operator string `json:"operator" validate:"required,min=1,max=64"`
}

type scanResponse struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message"`
	OrderNumber string `json:"order_number,omitempty"`
	Code        string `json:"code,omitempty"`
}

// RegisterScan runs the full scan flow for the dashboard and handheld
// scanners. The outcome is always 200 with an ok flag: a miss is a normal
// business answer, not a transport failure.
func RegisterScan(svc scanService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scan service unavailable"))
			return
		}
		var req scanRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res := svc.RegisterScan(r.Context(), req.Code, req.Operator, "Scanner - "+req.Operator)
		responses.WriteSuccess(w, scanResponse{
			OK:          res.OK,
			Message:     res.Message,
			OrderNumber: res.OrderNumber,
			Code:        string(res.Code),
		})
	}
}
