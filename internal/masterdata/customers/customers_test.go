package customers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
)

type memoryRepo struct {
	items  map[int64]Customer
	nextID int64
}

func (m *memoryRepo) List(ctx context.Context, filters mdshared.ListFilters) ([]Customer, int, error) {
	out := []Customer{}
	for id := m.nextID; id > 0; id-- {
		if s, ok := m.items[id]; ok {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Customer, error) {
	s, ok := m.items[id]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) Create(ctx context.Context, form CustomerForm) (int64, error) {
	m.nextID++
	m.items[m.nextID] = Customer{ID: m.nextID, Name: form.Name, Phone: form.Phone, Email: form.Email, Address: form.Address}
	return m.nextID, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, form CustomerForm) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	m.items[id] = Customer{ID: id, Name: form.Name, Phone: form.Phone, Email: form.Email, Address: form.Address}
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

func TestCustomerEndpoints(t *testing.T) {
	repo := &memoryRepo{items: map[int64]Customer{}}
	cache := &countingInvalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route("/api/customers", NewHandler(logger, NewService(repo, cache, nil, logger)).MountRoutes)

	do := func(method, path, body string) (int, map[string]any) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		var out map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
		return rec.Code, out
	}

	code, body := do(http.MethodPost, "/api/customers", `{"CustomerName":" Jane ","Email":" Sales@Jane.Example "}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Customer added successfully", body["message"])
	assert.Equal(t, float64(1), body["CustomerID"])
	assert.Equal(t, "Jane", repo.items[1].Name)
	assert.Equal(t, "sales@jane.example", repo.items[1].Email)

	code, body = do(http.MethodPost, "/api/customers", `{"CustomerName":""}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing required fields: CustomerName", body["error"])

	code, body = do(http.MethodPost, "/api/customers", `{"CustomerName":"X","Email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email must be a valid email address", body["error"])

	code, body = do(http.MethodPut, "/api/customers/1", `{"CustomerName":"Jane Ltd","Phone":"555"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer updated successfully", body["message"])

	code, body = do(http.MethodGet, "/api/customers/1", ``)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Jane Ltd", body["CustomerName"])
	assert.Equal(t, "555", body["Phone"])

	code, body = do(http.MethodDelete, "/api/customers/1", ``)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer deleted successfully", body["message"])

	code, body = do(http.MethodGet, "/api/customers/1", ``)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Customer not found", body["error"])

	assert.Equal(t, 3, cache.calls)
}
