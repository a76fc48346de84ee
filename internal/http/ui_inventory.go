package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/target/q-inventory/internal/domain/model"
	apperrors "github.com/target/q-inventory/internal/errors"
)

const inventoryPanelTemplate = "inventory-panel"

// itemView is one catalog row as the inventory template sees it.
type itemView struct {
	model.Item
	Critical bool
	Editing  bool
	Draft    int
}

// inventoryOutcome is what a mutation reports back to the page.
type inventoryOutcome struct {
	Success string
	Err     error
	Message string // overrides the message derived from Err
}

func (o inventoryOutcome) errorMessage() string {
	if o.Message != "" {
		return o.Message
	}
	return userMessage(o.Err)
}

func (h *UIHandlers) inventoryData(r *http.Request) (*TemplateDataBuilder, error) {
	b := h.pageData(r, PageMeta{PageTitle: "موجودی انبار", CurrentPage: PageInventory})

	items, err := h.Inventory.List(r.Context())
	if err != nil {
		return b, err
	}

	editing, isEditing := h.Editor.Current()
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		v := itemView{Item: it, Critical: it.IsCritical()}
		if isEditing && editing.ItemID == it.ID {
			v.Editing = true
			v.Draft = editing.Draft
		}
		views = append(views, v)
	}

	return b.
		With("Items", views).
		With("Critical", model.CriticalItems(items)).
		With("Icons", model.IconOptions()).
		With("DefaultIcon", model.DefaultIcon).
		With("DefaultThreshold", model.DefaultLowThreshold), nil
}

// Index renders the inventory page.
// GET /.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	b, err := h.inventoryData(r)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "load inventory", "error", err)
		b.WithError(msgUnexpected)
	}
	h.renderPage(w, r, b.Build())
}

// respondInventory finishes a mutation. htmx gets the refreshed panel and a toast;
// plain form posts are redirected back to the inventory page unless something failed.
func (h *UIHandlers) respondInventory(w http.ResponseWriter, r *http.Request, out inventoryOutcome) {
	if out.Err != nil && !isUserError(out.Err) {
		h.logger().ErrorContext(r.Context(), "inventory mutation failed", "path", r.URL.Path, "error", out.Err)
	}

	if !IsHTMX(r) && out.Err == nil && out.Message == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	b, err := h.inventoryData(r)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "load inventory", "error", err)
		b.WithError(msgUnexpected)
	}
	errMsg := ""
	if out.Err != nil || out.Message != "" {
		errMsg = out.errorMessage()
	}
	b.WithError(errMsg).WithSuccess(out.Success)

	if !IsHTMX(r) {
		h.renderPage(w, r, b.Build())
		return
	}

	if errMsg != "" {
		triggerToast(w, errMsg, "error")
	} else {
		triggerToast(w, out.Success, "success")
	}
	h.renderFragment(w, r, inventoryPanelTemplate, b.Build())
}

func isUserError(err error) bool {
	switch apperrors.GetCode(err) {
	case "", apperrors.ErrCodeInternal:
		return false
	default:
		return true
	}
}

// ItemCreate adds an item from the add form.
// POST /items.
func (h *UIHandlers) ItemCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := model.CreateItemRequest{
		Name:         r.PostFormValue("name"),
		LowThreshold: model.ParseThreshold(r.PostFormValue("low_threshold")),
		Emoji:        r.PostFormValue("emoji"),
	}
	if _, err := h.Inventory.Add(r.Context(), req); err != nil {
		h.respondInventory(w, r, inventoryOutcome{Err: err})
		return
	}
	h.respondInventory(w, r, inventoryOutcome{Success: msgItemAdded})
}

// ItemAdjust applies the +/- buttons.
// POST /items/{id}/adjust with form field delta.
func (h *UIHandlers) ItemAdjust(w http.ResponseWriter, r *http.Request) {
	delta, err := strconv.Atoi(strings.TrimSpace(r.FormValue("delta")))
	if err != nil {
		h.respondInventory(w, r, inventoryOutcome{Message: msgInvalidNumber})
		return
	}
	if _, err := h.Inventory.Adjust(r.Context(), r.PathValue("id"), delta); err != nil {
		h.respondInventory(w, r, inventoryOutcome{Err: err})
		return
	}
	h.respondInventory(w, r, inventoryOutcome{})
}

// ItemEdit opens the quantity editor on one item.
// GET /items/{id}/edit.
func (h *UIHandlers) ItemEdit(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Editor.Begin(r.Context(), r.PathValue("id")); err != nil {
		h.respondInventory(w, r, inventoryOutcome{Err: err})
		return
	}
	if !IsHTMX(r) {
		h.Index(w, r)
		return
	}
	h.respondInventory(w, r, inventoryOutcome{})
}

// ItemSaveQuantity commits the editor value.
// POST /items/{id}/quantity with form field quantity.
func (h *UIHandlers) ItemSaveQuantity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil {
		h.respondInventory(w, r, inventoryOutcome{Message: msgInvalidNumber})
		return
	}

	if _, err := h.Editor.Save(r.Context(), id, quantity); err != nil {
		out := inventoryOutcome{Err: err}
		if apperrors.IsValidation(err) && apperrors.GetField(err) == "" {
			out.Message = msgNotEditing
		}
		h.respondInventory(w, r, out)
		return
	}
	h.respondInventory(w, r, inventoryOutcome{Success: msgQuantitySaved})
}

// ItemEditCancel closes the editor without saving.
// POST /items/edit/cancel.
func (h *UIHandlers) ItemEditCancel(w http.ResponseWriter, r *http.Request) {
	h.Editor.Cancel()
	h.respondInventory(w, r, inventoryOutcome{})
}

// ItemDeleteConfirm shows the deletion prompt.
// GET /items/{id}/delete.
func (h *UIHandlers) ItemDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	item, err := h.Inventory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.respondInventory(w, r, inventoryOutcome{Err: err})
		return
	}

	data := h.pageData(r, PageMeta{Title: "حذف", PageTitle: "حذف مورد", CurrentPage: PageItemDelete}).
		With("Item", item).
		With("ConfirmMessage", msgConfirmDelete).
		Build()
	h.renderPage(w, r, data)
}

// ItemDelete removes the item when the prompt was confirmed; anything else cancels.
// POST /items/{id}/delete with confirm=yes.
func (h *UIHandlers) ItemDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if r.FormValue("confirm") != "yes" {
		h.redirectHome(w, r)
		return
	}

	deleted, err := h.Inventory.Remove(r.Context(), model.RemoveItemRequest{ID: id, Confirmed: true})
	if err != nil {
		h.respondInventory(w, r, inventoryOutcome{Err: err})
		return
	}
	h.Editor.Forget(id)
	if deleted {
		h.logger().InfoContext(r.Context(), "item deleted from ui", "id", id)
	}
	h.redirectHome(w, r)
}

func (h *UIHandlers) redirectHome(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		HTMX(w).Redirect("/")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CalendarFragment renders the header date; the layout polls it.
// GET /calendar/today.
func (h *UIHandlers) CalendarFragment(w http.ResponseWriter, r *http.Request) {
	h.renderFragment(w, r, "calendar-fragment", map[string]any{"Today": h.Calendar.Current()})
}
