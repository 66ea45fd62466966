package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/smart-inventory/inventory/internal/platform/httpx"
	"github.com/smart-inventory/inventory/internal/shared"
)

// DefaultExportLimit is the number of CSV exports an actor may start per minute.
const DefaultExportLimit = 10

// MountRoutes registers GET /audit and GET /audit/export.csv.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/audit", h.handleTimeline)
	r.With(h.exportLimiter()).Get("/audit/export.csv", h.handleExport)
}

func (h *Handler) exportLimiter() func(http.Handler) http.Handler {
	limit := h.exportLimit
	if limit <= 0 {
		limit = DefaultExportLimit
	}
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(exportKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			httpx.Error(w, http.StatusTooManyRequests, "Too many export requests")
		}),
	)
}

// exportKey buckets authenticated callers by actor and anonymous ones by IP.
func exportKey(r *http.Request) (string, error) {
	if actor := shared.ActorFromContext(r.Context()); actor != "system" {
		return "actor:" + actor, nil
	}
	ip, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + ip, nil
}
