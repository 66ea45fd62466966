package audithttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-inventory/inventory/internal/audit"
	"github.com/smart-inventory/inventory/internal/shared"
)

type stubTimelineService struct {
	result      audit.Result
	exportRows  []audit.TimelineRow
	err         error
	lastFilters audit.TimelineFilters
}

func (s *stubTimelineService) Timeline(_ context.Context, filters audit.TimelineFilters) (audit.Result, error) {
	s.lastFilters = filters
	return s.result, s.err
}

func (s *stubTimelineService) Export(_ context.Context, filters audit.TimelineFilters) ([]audit.TimelineRow, error) {
	s.lastFilters = filters
	return s.exportRows, s.err
}

func newTestRouter(svc TimelineService) http.Handler {
	h := NewHandler(nil, svc)
	h.now = func() time.Time { return time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC) }
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestTimelineDefaultsToLastWeek(t *testing.T) {
	svc := &stubTimelineService{result: audit.Result{Rows: []audit.TimelineRow{{ID: 1, Action: "sale.recorded"}}, Paging: audit.PagingInfo{Page: 1, PageSize: 20}}}
	rec := get(newTestRouter(svc), "/audit?entity=sale&action=sale.recorded")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), svc.lastFilters.From)
	assert.Equal(t, time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), svc.lastFilters.To)
	assert.Equal(t, "sale", svc.lastFilters.Entity)
	assert.Equal(t, 1, svc.lastFilters.Page)

	var body audit.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "sale.recorded", body.Rows[0].Action)
}

func TestTimelineRejectsBadFilters(t *testing.T) {
	h := newTestRouter(&stubTimelineService{})
	cases := map[string]string{
		"/audit?from=yesterday":                "from must be a date (YYYY-MM-DD)",
		"/audit?from=2024-03-10&to=2024-03-01": "from must not be after to",
		"/audit?from=2023-01-01&to=2024-03-01": "Date range must not exceed 90 days",
		"/audit?page=0":                        "page must be a positive integer",
		"/audit?page_size=abc":                 "page_size must be a positive integer",
	}
	for target, message := range cases {
		rec := get(h, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), message, target)
	}
}

func TestTimelineServiceFailure(t *testing.T) {
	rec := get(newTestRouter(&stubTimelineService{err: errors.New("db down")}), "/audit")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestExportCSV(t *testing.T) {
	svc := &stubTimelineService{exportRows: []audit.TimelineRow{{
		ID: 4, At: time.Date(2024, 3, 19, 8, 0, 0, 0, time.UTC), Actor: "admin", Action: "product.deleted", Entity: "product", EntityID: "9",
	}}}
	rec := get(newTestRouter(svc), "/audit/export.csv?entity=product")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "4,2024-03-19T08:00:00Z,admin,product.deleted,product,9,", lines[1])
}

func TestExportIsRateLimited(t *testing.T) {
	h := newTestRouter(&stubTimelineService{})
	for i := 0; i < DefaultExportLimit; i++ {
		require.Equal(t, http.StatusOK, get(h, "/audit/export.csv").Code)
	}
	rec := get(h, "/audit/export.csv")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many export requests"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, get(h, "/audit").Code, "timeline is not limited")
}

func TestExportLimitIsPerActor(t *testing.T) {
	h := NewHandler(nil, &stubTimelineService{})
	h.exportLimit = 1
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if actor := req.Header.Get("X-Actor"); actor != "" {
				req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.MountRoutes(r)

	asActor := func(actor string) int {
		req := httptest.NewRequest(http.MethodGet, "/audit/export.csv", nil)
		req.Header.Set("X-Actor", actor)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusOK, asActor("alice"))
	require.Equal(t, http.StatusTooManyRequests, asActor("alice"))
	require.Equal(t, http.StatusOK, asActor("bob"))
}
