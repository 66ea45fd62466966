package app

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/smart-inventory/inventory/internal/platform/httpx"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SchemaInitializer recreates the database schema and reports the number of
// statements executed.
type SchemaInitializer func(ctx context.Context) (int, error)

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

func healthHandler(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			httpx.JSON(w, http.StatusInternalServerError, healthResponse{Status: "unhealthy", DB: "down"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("health check failed", slog.Any("error", err))
			httpx.JSON(w, http.StatusInternalServerError, healthResponse{Status: "unhealthy", DB: "down"})
			return
		}
		httpx.JSON(w, http.StatusOK, healthResponse{Status: "ok", DB: "up"})
	}
}

// initDBHandler drops and recreates every table. It is guarded by the admin
// token passed as ?token= or X-Admin-Token.
func initDBHandler(token string, initSchema SchemaInitializer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplied := r.URL.Query().Get("token")
		if supplied == "" {
			supplied = r.Header.Get("X-Admin-Token")
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			httpx.Error(w, http.StatusForbidden, "Forbidden")
			return
		}
		if initSchema == nil {
			httpx.Error(w, http.StatusInternalServerError, "DB connection failed")
			return
		}
		count, err := initSchema(r.Context())
		if err != nil {
			logger.Error("init schema failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		logger.Warn("database schema initialized", slog.Int("statements", count))
		httpx.JSON(w, http.StatusOK, map[string]any{"message": "Schema initialized", "statementsRun": count})
	}
}
