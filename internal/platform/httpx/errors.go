// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/smart-inventory/inventory/internal/shared"
)

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrFormat), errors.Is(err, shared.ErrBusinessRule):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes {"error": msg} with the status mapped from err.
// Infrastructure errors never leak their details.
func RespondError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), shared.UserSafeMessage(err))
}
