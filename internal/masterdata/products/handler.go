package products

import (
	"log/slog"
	"net/http"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/platform/httpx"
	"github.com/smart-inventory/inventory/internal/shared"
)

// Handler serves the product endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the product handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := mdshared.ParseListFilters(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	mdshared.WritePagination(w, filters, total)
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := mdshared.ParseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	id, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Product added successfully", "ProductID": id})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := mdshared.ParseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.service.Update(r.Context(), id, form); err != nil {
		h.fail(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Product updated successfully"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := mdshared.ParseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Product deleted successfully"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ProductForm, bool) {
	payload, err := mdshared.DecodePayload(r)
	if err != nil {
		httpx.RespondError(w, err)
		return ProductForm{}, false
	}
	form, err := ParseForm(payload)
	if err != nil {
		httpx.RespondError(w, err)
		return ProductForm{}, false
	}
	return form, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if shared.Classify(err) == shared.ClassServerError {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
