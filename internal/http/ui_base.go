package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/target/q-inventory/internal/domain/auth"
	"github.com/target/q-inventory/internal/domain/calendar"
	"github.com/target/q-inventory/internal/domain/model"
	"github.com/target/q-inventory/internal/service"
)

// SessionResolver resolves a session cookie value into a live session.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// IdentityService is the slice of the identity store the HTTP layer needs.
type IdentityService interface {
	SessionResolver
	Authenticate(ctx context.Context, username, password string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CreateAccount(ctx context.Context, req service.CreateAccountRequest) (*domainauth.Account, error)
	ChangePassword(ctx context.Context, req service.ChangePasswordRequest) error
	ListAccounts(ctx context.Context) ([]domainauth.Account, error)
}

// InventoryService is the slice of the inventory store the HTTP layer needs.
type InventoryService interface {
	List(ctx context.Context) ([]model.Item, error)
	Critical(ctx context.Context) ([]model.Item, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Adjust(ctx context.Context, id string, delta int) (*model.Item, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*model.Item, error)
	Add(ctx context.Context, req model.CreateItemRequest) (*model.Item, error)
	Remove(ctx context.Context, req model.RemoveItemRequest) (bool, error)
	Query(ctx context.Context, expr string) (any, error)
}

// QuantityEditor is the single quantity edit slot.
type QuantityEditor interface {
	Begin(ctx context.Context, id string) (service.EditState, error)
	Current() (service.EditState, bool)
	Save(ctx context.Context, id string, value int) (*model.Item, error)
	Cancel()
	Forget(id string)
}

// CalendarSource supplies today's Jalali date.
type CalendarSource interface {
	Current() calendar.Date
}

var (
	_ IdentityService  = (*service.IdentityService)(nil)
	_ InventoryService = (*service.InventoryService)(nil)
	_ QuantityEditor   = (*service.QuantityEditor)(nil)
	_ CalendarSource   = (*service.CalendarClock)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Identity     IdentityService
	Inventory    InventoryService
	Editor       QuantityEditor
	Calendar     CalendarSource
	CookieDomain string
	IsDev        bool
	Logger       *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// pageData seeds template data with the layout fields and today's date.
func (h *UIHandlers) pageData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	b := NewTemplateData(r, meta)
	if h.Calendar != nil {
		b.With("Today", h.Calendar.Current())
	}
	return b
}

// renderPage renders the whole layout, or only the page content for htmx requests.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	var err error
	if WantsPartial(r) {
		page, _ := data["CurrentPage"].(string)
		err = h.T.Render(w, ContentTemplateFor(page), data)
	} else {
		err = h.T.RenderFull(w, r, data)
	}
	if err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// renderFragment renders a single named template, typically an htmx swap target.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.T.Render(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().Error("template rendering failed",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)
	if h.IsDev {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// NotFound answers 404 with an HTML page for browsers and JSON for API clients.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) || h.T == nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("not found")})
		return
	}

	data := map[string]any{
		"Title":   msgPageNotFound + " | " + appTitle,
		"Code":    "404",
		"Message": msgPageNotFound,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("failed to render not found page", "error", err)
	}
}
