package customers

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
		h.fail(w, "list customers", err)
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
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	id, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.fail(w, "create customer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Customer added successfully", "CustomerID": id})
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
		h.fail(w, "update customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Customer updated successfully"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := mdshared.ParseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Customer deleted successfully"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (CustomerForm, bool) {
	payload, err := mdshared.DecodePayload(r)
	if err != nil {
		httpx.RespondError(w, err)
		return CustomerForm{}, false
	}
	form, err := ParseForm(payload)
	if err != nil {
		httpx.RespondError(w, err)
		return CustomerForm{}, false
	}
	return form, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if shared.Classify(err) == shared.ClassServerError {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
