package reports

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smart-inventory/inventory/internal/platform/httpx"
)

// Handler exposes the dashboard and report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", serve(h, "dashboard", h.service.Dashboard))
	r.Get("/reports/low-stock", serve(h, "low stock report", h.service.LowStock))
	r.Get("/reports/sales-summary", serve(h, "sales summary report", h.service.SalesSummary))
	r.Get("/reports/top-products", serve(h, "top products report", h.service.TopProducts))
}

func serve[T any](h *Handler, name string, load func(context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := load(r.Context())
		if err != nil {
			h.logger.Error(name+" failed", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, data)
	}
}
