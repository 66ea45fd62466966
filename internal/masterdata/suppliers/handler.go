package suppliers

import (
	"log/slog"
	"net/http"

	mdshared "github.com/smart-inventory/inventory/internal/masterdata/shared"
	"github.com/smart-inventory/inventory/internal/platform/httpx"
	"github.com/smart-inventory/inventory/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := mdshared.ParseListFilters(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.fail(w, "list suppliers", err)
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
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	id, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.fail(w, "create supplier", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Supplier added successfully", "SupplierID": id})
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
		h.fail(w, "update supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Supplier updated successfully"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := mdshared.ParseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Supplier deleted successfully"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (SupplierForm, bool) {
	payload, err := mdshared.DecodePayload(r)
	if err != nil {
		httpx.RespondError(w, err)
		return SupplierForm{}, false
	}
	form, err := ParseForm(payload)
	if err != nil {
		httpx.RespondError(w, err)
		return SupplierForm{}, false
	}
	return form, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if shared.Classify(err) == shared.ClassServerError {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
