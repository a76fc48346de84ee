package httpx

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	qinventory "github.com/target/q-inventory"
	domainauth "github.com/target/q-inventory/internal/domain/auth"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Identity     IdentityService
	Inventory    InventoryService
	Editor       QuantityEditor
	Calendar     CalendarSource
	Metrics      http.Handler           // Optional: served at GET /metrics (prometheus backend)
	HealthChecks map[string]HealthCheck // Optional: dependency probes reported by /healthz
	CookieDomain string
	IsDev        bool         // Load templates and static files from disk
	Logger       *slog.Logger // Optional
	TemplateFS   fs.FS        // Optional: overrides the template source (tests)
}

// NewRouter creates and configures the HTTP router with browser detection.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := healthHandler(services.HealthChecks)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics)
	}
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))

	ui := setupUIHandlers(services, logger)
	api := &APIHandlers{
		Inventory: services.Inventory,
		Editor:    services.Editor,
		Calendar:  services.Calendar,
		Logger:    logger,
	}
	cfg := routeConfig{Sessions: services.Identity, CookieDomain: services.CookieDomain}

	registerAPIRoutes(mux, api, cfg)
	if ui != nil {
		auth := &AuthHandlers{UI: ui, Svc: services.Identity, CookieDomain: services.CookieDomain, Logger: logger}
		registerAuthRoutes(mux, auth, cfg)
		registerUIRoutes(mux, ui, cfg)
	}

	return BrowserDetection()(&notFoundHandler{mux: mux, ui: ui})
}

func setupUIHandlers(services RouterServices, logger *slog.Logger) *UIHandlers {
	templateFS := services.TemplateFS
	if templateFS == nil {
		templateFS = templateSource(services.IsDev, logger)
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		logger.Error("failed to create template renderer; UI routes disabled", slog.Any("error", err))
		return nil
	}

	return &UIHandlers{
		T:            tr,
		Identity:     services.Identity,
		Inventory:    services.Inventory,
		Editor:       services.Editor,
		Calendar:     services.Calendar,
		CookieDomain: services.CookieDomain,
		IsDev:        services.IsDev,
		Logger:       logger,
	}
}

// templateSource reads templates from disk in dev mode and from the embedded FS otherwise.
func templateSource(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(qinventory.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Warn("embedded templates unavailable; falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	var root http.FileSystem = http.Dir("frontend/static")
	if !isDev {
		sub, err := fs.Sub(qinventory.StaticFS, "frontend/static")
		if err != nil {
			logger.Warn("embedded static assets unavailable; falling back to disk", "error", err)
		} else {
			root = http.FS(sub)
		}
	}

	files := http.StripPrefix("/static/", http.FileServer(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		files.ServeHTTP(w, r)
	})
}

// notFoundHandler replaces the mux's plain-text 404 with an HTML or JSON one.
type notFoundHandler struct {
	mux *http.ServeMux
	ui  *UIHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" || strings.HasPrefix(r.URL.Path, "/static/") {
		h.mux.ServeHTTP(w, r)
		return
	}

	// Let the mux answer 405s and redirects; only rewrite its 404.
	cw := &captureWriter{header: make(http.Header), status: http.StatusOK}
	h.mux.ServeHTTP(cw, r)
	if cw.status == http.StatusNotFound {
		if h.ui != nil {
			h.ui.NotFound(w, r)
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("resource not found")})
		return
	}
	cw.flushTo(w)
}

type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	_, _ = w.Write(c.buf.Bytes())
}

// routeConfig carries what route registration needs to build middleware.
type routeConfig struct {
	Sessions     SessionResolver
	CookieDomain string
}

func (cfg routeConfig) csrf() func(http.Handler) http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
}

// authWrap requires a session and CSRF for browser routes.
func (cfg routeConfig) authWrap() func(http.Handler) http.Handler {
	auth := RequireAuthBrowser(cfg.Sessions)
	csrf := cfg.csrf()
	return func(h http.Handler) http.Handler { return auth(csrf(h)) }
}

// adminWrap requires an admin session and CSRF.
func (cfg routeConfig) adminWrap() func(http.Handler) http.Handler {
	role := RequireRoleBrowser(cfg.Sessions, domainauth.RoleAdmin)
	csrf := cfg.csrf()
	return func(h http.Handler) http.Handler { return role(csrf(h)) }
}

// publicWrap attaches the session when present and applies CSRF.
func (cfg routeConfig) publicWrap() func(http.Handler) http.Handler {
	opt := OptionalAuth(cfg.Sessions)
	csrf := cfg.csrf()
	return func(h http.Handler) http.Handler { return opt(csrf(h)) }
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cfg routeConfig) {
	wrap := cfg.publicWrap()
	mux.Handle("GET /auth/login", wrap(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /auth/login", wrap(http.HandlerFunc(h.Login)))
	mux.Handle("POST /auth/logout", wrap(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg routeConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Index)))
	mux.Handle("POST /items", wrap(http.HandlerFunc(h.ItemCreate)))
	mux.Handle("POST /items/{id}/adjust", wrap(http.HandlerFunc(h.ItemAdjust)))
	mux.Handle("GET /items/{id}/edit", wrap(http.HandlerFunc(h.ItemEdit)))
	mux.Handle("POST /items/{id}/quantity", wrap(http.HandlerFunc(h.ItemSaveQuantity)))
	mux.Handle("POST /items/edit/cancel", wrap(http.HandlerFunc(h.ItemEditCancel)))
	mux.Handle("GET /items/{id}/delete", wrap(http.HandlerFunc(h.ItemDeleteConfirm)))
	mux.Handle("POST /items/{id}/delete", wrap(http.HandlerFunc(h.ItemDelete)))
	mux.Handle("GET /calendar/today", wrap(http.HandlerFunc(h.CalendarFragment)))
	mux.Handle("GET /account/password", wrap(http.HandlerFunc(h.PasswordPage)))
	mux.Handle("POST /account/password", wrap(http.HandlerFunc(h.PasswordChange)))

	admin := cfg.adminWrap()
	mux.Handle("GET /accounts", admin(http.HandlerFunc(h.Accounts)))
	mux.Handle("POST /accounts", admin(http.HandlerFunc(h.AccountCreate)))
}

// registerAPIRoutes mounts the JSON API. The session is a cookie, so unsafe
// methods need the CSRF header like htmx requests do.
func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers, cfg routeConfig) {
	wrap := cfg.authWrap()
	handle := func(pattern string, fn http.HandlerFunc) { mux.Handle(pattern, wrap(fn)) }

	handle("GET /api/items", h.ListItems)
	handle("GET /api/items/critical", h.CriticalItems)
	handle("POST /api/items", h.CreateItem)
	handle("POST /api/items/{id}/adjust", h.AdjustItem)
	handle("PUT /api/items/{id}/quantity", h.SetQuantity)
	handle("DELETE /api/items/{id}", h.DeleteItem)
	handle("GET /api/calendar/today", h.CalendarToday)
}
