package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	audithttp "github.com/smart-inventory/inventory/internal/audit/http"
	"github.com/smart-inventory/inventory/internal/auth"
	"github.com/smart-inventory/inventory/internal/inventory"
	"github.com/smart-inventory/inventory/internal/masterdata"
	"github.com/smart-inventory/inventory/internal/observability"
	"github.com/smart-inventory/inventory/internal/platform/httpx"
	"github.com/smart-inventory/inventory/internal/reports"
	"github.com/smart-inventory/inventory/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Metrics          *observability.Metrics
	DB               Pinger
	InitSchema       SchemaInitializer
	Auth             *auth.Service
	AuthHandler      *auth.Handler
	InventoryHandler *inventory.Handler
	MasterData       *masterdata.Module
	ReportsHandler   *reports.Handler
	JobsHandler      *jobs.Handler
	AuditHandler     *audithttp.Handler
}

// NewRouter constructs the chi.Router with inventory defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.Config == nil || !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	health := healthHandler(params.DB, params.Logger)
	r.Get("/health", health)

	adminToken := ""
	if params.Config != nil {
		adminToken = params.Config.AdminToken
	}
	r.Post("/admin/init-db", initDBHandler(adminToken, params.InitSchema, params.Logger))

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if params.Auth != nil {
			r.Use(params.Auth.RequireToken)
		}
		r.Get("/health", health)
		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(r)
		}
		if params.InventoryHandler != nil {
			params.InventoryHandler.MountRoutes(r)
		}
		if params.MasterData != nil {
			params.MasterData.MountRoutes(r)
		}
		if params.ReportsHandler != nil {
			params.ReportsHandler.MountRoutes(r)
		}
		if params.JobsHandler != nil {
			params.JobsHandler.MountRoutes(r)
		}
		params.AuditHandler.MountRoutes(r)
	})

	return r
}
