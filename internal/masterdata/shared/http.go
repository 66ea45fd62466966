package shared

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smart-inventory/inventory/internal/platform/httpx"
	internalShared "github.com/smart-inventory/inventory/internal/shared"
)

// ErrInvalidID answers non-numeric path ids the way unknown routes are answered.
var ErrInvalidID = internalShared.NotFoundError("Not found")

// ParseID reads the {id} path parameter.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// DecodePayload reads a JSON object body.
func DecodePayload(r *http.Request) (internalShared.Payload, error) {
	payload, err := httpx.DecodeObject(r)
	if err != nil {
		return nil, internalShared.ErrInvalidPayload
	}
	return payload, nil
}
