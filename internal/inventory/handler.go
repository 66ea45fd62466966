package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smart-inventory/inventory/internal/platform/httpx"
	"github.com/smart-inventory/inventory/internal/shared"
)

// IdempotencyHeader carries an optional client supplied request key.
const IdempotencyHeader = "Idempotency-Key"

// Handler wires HTTP endpoints for the sales and purchase ledgers.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales", h.listSales)
	r.Post("/sales", h.recordSale)
	r.Get("/purchases", h.listPurchases)
	r.Post("/purchases", h.recordPurchase)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ListSales(r.Context(), parseListFilter(r))
	if err != nil {
		h.fail(w, "list sales failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sales)
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.service.ListPurchases(r.Context(), parseListFilter(r))
	if err != nil {
		h.fail(w, "list purchases failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, purchases)
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	payload, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.RespondError(w, ErrInvalidJSON)
		return
	}
	input, err := ParseSaleInput(payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	input.IdempotencyKey, err = shared.NormalizeIdempotencyKey(r.Header.Get(IdempotencyHeader))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	input.Actor = shared.ActorFromContext(r.Context())

	sale, err := h.service.RecordSale(r.Context(), input)
	if err != nil {
		h.fail(w, "record sale failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Sale recorded successfully",
		"SaleID":  sale.ID,
	})
}

func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	payload, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.RespondError(w, ErrInvalidJSON)
		return
	}
	input, err := ParsePurchaseInput(payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	input.IdempotencyKey, err = shared.NormalizeIdempotencyKey(r.Header.Get(IdempotencyHeader))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	input.Actor = shared.ActorFromContext(r.Context())

	purchase, err := h.service.RecordPurchase(r.Context(), input)
	if err != nil {
		h.fail(w, "record purchase failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":    "Purchase recorded successfully",
		"PurchaseID": purchase.ID,
	})
}

// fail logs server faults with their cause and answers with the mapped status.
func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if shared.Classify(err) == shared.ClassServerError {
		h.logger.Error(msg, slog.Any("error", err))
	} else {
		h.logger.Info(msg, slog.String("reason", err.Error()))
	}
	httpx.RespondError(w, err)
}

func parseListFilter(r *http.Request) ListFilter {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return ListFilter{Limit: limit}
}
