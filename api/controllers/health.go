package controllers

import (
	"context"
	"net/http"

	"github.com/ruancarvalho/pedidosync-backend/api/responses"
	"github.com/ruancarvalho/pedidosync-backend/pkg/config"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports liveness plus a connectivity flag for the spreadsheet
// backend. A failed ping keeps the endpoint at 200; the flag is for the
// operator dashboard, not for load balancers to kill the process over.
func Healthz(cfg *config.Config, store pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sheetsOK := false
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "error", err.Error())
					logg.Warn(ctx, "spreadsheet ping failed")
				}
			} else {
				sheetsOK = true
			}
		}
		responses.WriteSuccess(w, map[string]any{
			"status": "live",
			"env":    cfg.App.Env,
			"sheets": sheetsOK,
		})
	}
}
