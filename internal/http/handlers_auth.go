package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/q-inventory/internal/domain/auth"
)

// AuthHandlers serves the login form, logout and the JSON status endpoint.
type AuthHandlers struct {
	UI           *UIHandlers
	Svc          IdentityService
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) loginData(r *http.Request, redirectURI string) *TemplateDataBuilder {
	return h.UI.pageData(r, PageMeta{Title: "ورود", PageTitle: "ورود به انبار", CurrentPage: PageLogin}).
		With("RedirectURI", redirectURI)
}

// LoginPage renders the login form.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if GetSessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}
	h.UI.renderPage(w, r, h.loginData(r, redirectURI).Build())
}

// Login checks the submitted credentials and starts a session.
// POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	fail := func(msg string) {
		data := h.loginData(r, redirectURI).With("Username", username).WithError(msg).Build()
		h.UI.renderPage(w, r, data)
	}

	if strings.TrimSpace(username) == "" || password == "" {
		fail(msgFillAllFields)
		return
	}

	session, err := h.Svc.Authenticate(r.Context(), username, password)
	if err != nil {
		h.logger().InfoContext(r.Context(), "login rejected", "username", username, "error", err)
		fail(userMessage(err))
		return
	}

	setSessionCookie(w, r, h.CookieDomain, session)
	if IsHTMX(r) {
		HTMX(w).Redirect(redirectURI)
		return
	}
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// Logout ends the session and returns to the login page.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	clearCookie(w, r, h.CookieDomain, SessionCookieName)

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": "/auth/login"})
		return
	}
	if IsHTMX(r) {
		HTMX(w).Redirect("/auth/login")
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Status reports whether the caller holds a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), c.Value)
	if err != nil {
		clearCookie(w, r, h.CookieDomain, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":           session.AccountID,
			"username":     session.Username,
			"display_name": session.DisplayName,
			"role":         session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// setSessionCookie writes the session cookie to live as long as the session.
// A session without a lifetime gets a browser-session cookie.
func setSessionCookie(w http.ResponseWriter, r *http.Request, domain string, s *domainauth.Session) {
	maxAge := int(s.Lifetime().Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func clearCookie(w http.ResponseWriter, r *http.Request, domain, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
