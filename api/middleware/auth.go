package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ruancarvalho/pedidosync-backend/api/responses"
	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

// RequireSharedSecret guards routes with a static bearer token. Clients are
// scanners and kiosk tablets provisioned with one shared credential; there
// are no per-user accounts.
func RequireSharedSecret(logg *logger.Logger, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if secret == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConfig, "api shared secret not configured"))
				return
			}
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid bearer token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
