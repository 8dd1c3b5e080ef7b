package sheets

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
)

// mapAPIError converts Sheets API failures into the shared error taxonomy.
// Rate limiting is also detected by message content because the backend
// reports quota errors inconsistently across endpoints.
func mapAPIError(err error, op string) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || isQuotaMessage(apiErr.Message):
			return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, op)
		case apiErr.Code == http.StatusNotFound:
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, op)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, op)
		}
	}
	if isQuotaMessage(err.Error()) {
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, op)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func isQuotaMessage(msg string) bool {
	return strings.Contains(msg, "Quota exceeded") || strings.Contains(msg, "[429]")
}

// IsRateLimited reports whether err is the backend's "try again later" signal.
func IsRateLimited(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeRateLimit)
}

// IsNotFound reports whether err signals an absent document or sheet.
func IsNotFound(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeNotFound)
}
