package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-inventory/inventory/internal/auth"
	"github.com/smart-inventory/inventory/internal/observability"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func newTestRouter(t *testing.T, pinger Pinger, initSchema SchemaInitializer) http.Handler {
	t.Helper()
	repo, err := auth.NewStaticRepository("admin", "pw", bcrypt.MinCost)
	require.NoError(t, err)
	svc := auth.NewService(repo, "tok", "admin")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(RouterParams{
		Logger:      logger,
		Config:      &Config{AppEnv: "production", AdminToken: "tok"},
		Metrics:     observability.NewMetrics(),
		DB:          pinger,
		InitSchema:  initSchema,
		Auth:        svc,
		AuthHandler: auth.NewHandler(logger, svc),
	})
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthReportsDatabaseState(t *testing.T) {
	h := newTestRouter(t, stubPinger{}, nil)
	for _, path := range []string{"/health", "/api/health"} {
		rec := serve(h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, map[string]any{"status": "ok", "db": "up"}, decode(t, rec))
	}

	h = newTestRouter(t, stubPinger{err: errors.New("down")}, nil)
	rec := serve(h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"status": "unhealthy", "db": "down"}, decode(t, rec))
}

func TestSecurityHeaders(t *testing.T) {
	rec := serve(newTestRouter(t, stubPinger{}, nil), http.MethodGet, "/health", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	h := newTestRouter(t, stubPinger{}, nil)

	rec := serve(h, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode(t, rec)["error"])

	rec = serve(h, http.MethodDelete, "/health", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	h := newTestRouter(t, stubPinger{}, nil)

	rec := serve(h, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decode(t, rec)["error"])

	rec = serve(h, http.MethodGet, "/api/dashboard", http.Header{"Authorization": {"Bearer tok"}})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitDBRequiresAdminToken(t *testing.T) {
	calls := 0
	initSchema := func(context.Context) (int, error) {
		calls++
		return 12, nil
	}
	h := newTestRouter(t, stubPinger{}, initSchema)

	rec := serve(h, http.MethodPost, "/admin/init-db", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decode(t, rec)["error"])

	rec = serve(h, http.MethodPost, "/admin/init-db?token=wrong", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Zero(t, calls)

	rec = serve(h, http.MethodPost, "/admin/init-db?token=tok", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Schema initialized", body["message"])
	assert.EqualValues(t, 12, body["statementsRun"])

	rec = serve(h, http.MethodPost, "/admin/init-db", http.Header{"X-Admin-Token": {"tok"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, calls)
}

func TestInitDBFailure(t *testing.T) {
	h := newTestRouter(t, stubPinger{}, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	rec := serve(h, http.MethodPost, "/admin/init-db?token=tok", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, stubPinger{}, nil)
	serve(h, http.MethodGet, "/health", nil)
	rec := serve(h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory_http_requests_total")
}
