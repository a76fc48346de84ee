package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/q-inventory/internal/domain/model"
	apperrors "github.com/target/q-inventory/internal/errors"
)

// APIHandlers serves the JSON inventory API.
type APIHandlers struct {
	Inventory InventoryService
	Editor    QuantityEditor
	Calendar  CalendarSource
	Logger    *slog.Logger
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !isUserError(err) {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "api request failed", "path", r.URL.Path, "error", err)
	}
	WriteServiceError(w, err)
}

// ListItems returns the catalog, or the result of a JMESPath filter over it.
// GET /api/items[?filter=<expr>].
func (h *APIHandlers) ListItems(w http.ResponseWriter, r *http.Request) {
	if expr := r.URL.Query().Get("filter"); expr != "" {
		out, err := h.Inventory.Query(r.Context(), expr)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"filter": expr, "result": out})
		return
	}

	items, err := h.Inventory.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// CriticalItems returns items at or below their threshold.
// GET /api/items/critical.
func (h *APIHandlers) CriticalItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.Critical(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// CreateItem adds an item.
// POST /api/items.
func (h *APIHandlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req model.CreateItemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	item, err := h.Inventory.Add(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// AdjustItem changes a quantity by delta, flooring at zero.
// POST /api/items/{id}/adjust.
func (h *APIHandlers) AdjustItem(w http.ResponseWriter, r *http.Request) {
	var req model.AdjustQuantityRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	item, err := h.Inventory.Adjust(r.Context(), r.PathValue("id"), req.Delta)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// SetQuantity overwrites a quantity.
// PUT /api/items/{id}/quantity.
func (h *APIHandlers) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req model.SetQuantityRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	item, err := h.Inventory.SetQuantity(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// DeleteItem removes an item. The caller must pass confirm=true.
// DELETE /api/items/{id}?confirm=true.
func (h *APIHandlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := h.Inventory.Remove(r.Context(), model.RemoveItemRequest{
		ID:        id,
		Confirmed: r.URL.Query().Get("confirm") == "true",
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		WriteServiceError(w, apperrors.NotFoundf("item %s not found", id))
		return
	}
	if h.Editor != nil {
		h.Editor.Forget(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// CalendarToday returns today's Jalali date.
// GET /api/calendar/today.
func (h *APIHandlers) CalendarToday(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Calendar.Current())
}
