package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ruancarvalho/pedidosync-backend/api/responses"
	"github.com/ruancarvalho/pedidosync-backend/internal/catalog"
	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type catalogService interface {
	Lookup(ctx context.Context, code string) (*catalog.Item, error)
}

// CatalogLookup resolves a component serial against the reference sheet so
// the dashboard can validate codes before they reach a scanner.
func CatalogLookup(svc catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		serial := strings.TrimSpace(chi.URLParam(r, "serial"))
		if serial == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "serial is required"))
			return
		}
		item, err := svc.Lookup(r.Context(), serial)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Item não encontrado"))
			return
		}
		responses.WriteSuccess(w, item)
	}
}
