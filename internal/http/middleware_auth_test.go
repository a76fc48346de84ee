package httpx

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/q-inventory/internal/domain/auth"
	apperrors "github.com/target/q-inventory/internal/errors"
)

// stubSessions resolves the session IDs in its map and rejects everything else.
type stubSessions map[string]domainauth.Session

func (s stubSessions) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	sess, ok := s[id]
	if !ok {
		return nil, apperrors.NotFoundf("session %s", id)
	}
	return &sess, nil
}

func testSessions() stubSessions {
	exp := time.Now().Add(time.Hour)
	return stubSessions{
		"user-sid":  {ID: "user-sid", AccountID: "u1", Username: "sara", DisplayName: "سارا", Role: domainauth.RoleUser, ExpiresAt: exp},
		"admin-sid": {ID: "admin-sid", AccountID: "a1", Username: "harmad", DisplayName: "مدیر", Role: domainauth.RoleAdmin, ExpiresAt: exp},
	}
}

func okHandler(t *testing.T, wantSessionID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSessionFromContext(r.Context())
		if wantSessionID == "" {
			assert.Nil(t, s)
		} else if assert.NotNil(t, s) {
			assert.Equal(t, wantSessionID, s.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithSession(method, target, sid string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	}
	return req
}

func TestRequireAuthBrowser(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		sid          string
		accept       string
		htmx         bool
		wantStatus   int
		wantLocation string
		wantHXRedir  string
	}{
		{name: "valid session", target: "/", sid: "user-sid", accept: "text/html", wantStatus: http.StatusOK},
		{name: "api without session", target: "/api/items", accept: "application/json", wantStatus: http.StatusUnauthorized},
		{name: "api with unknown session", target: "/api/items", sid: "stale", wantStatus: http.StatusUnauthorized},
		{
			name:         "browser without session",
			target:       "/account/password",
			accept:       "text/html",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/auth/login?redirect_uri=%2Faccount%2Fpassword",
		},
		{
			name:        "htmx without session",
			target:      "/items/abc/edit",
			htmx:        true,
			wantStatus:  http.StatusNoContent,
			wantHXRedir: "/auth/login?redirect_uri=%2Fitems%2Fabc%2Fedit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantSID := ""
			if tt.wantStatus == http.StatusOK {
				wantSID = tt.sid
			}
			h := BrowserDetection()(RequireAuthBrowser(testSessions())(okHandler(t, wantSID)))

			req := requestWithSession(http.MethodGet, tt.target, tt.sid)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				req.Header.Set("Hx-Request", "true")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Equal(t, tt.wantHXRedir, rec.Header().Get("Hx-Redirect"))
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), "authentication_required")
			}
		})
	}
}

func TestRequireRoleBrowser(t *testing.T) {
	tests := []struct {
		name       string
		sid        string
		target     string
		accept     string
		wantStatus int
		wantBody   string
	}{
		{name: "admin allowed", sid: "admin-sid", target: "/accounts", accept: "text/html", wantStatus: http.StatusOK},
		{name: "user denied in browser", sid: "user-sid", target: "/accounts", accept: "text/html", wantStatus: http.StatusForbidden, wantBody: msgAccessDenied},
		{name: "user denied on api", sid: "user-sid", target: "/api/accounts", accept: "application/json", wantStatus: http.StatusForbidden, wantBody: "insufficient_permissions"},
		{name: "anonymous redirected", target: "/accounts", accept: "text/html", wantStatus: http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantSID := ""
			if tt.wantStatus == http.StatusOK {
				wantSID = tt.sid
			}
			h := BrowserDetection()(RequireRoleBrowser(testSessions(), domainauth.RoleAdmin)(okHandler(t, wantSID)))

			req := requestWithSession(http.MethodGet, tt.target, tt.sid)
			req.Header.Set("Accept", tt.accept)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("with session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		OptionalAuth(testSessions())(okHandler(t, "user-sid")).
			ServeHTTP(rec, requestWithSession(http.MethodGet, "/auth/login", "user-sid"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown session passes through anonymously", func(t *testing.T) {
		rec := httptest.NewRecorder()
		OptionalAuth(testSessions())(okHandler(t, "")).
			ServeHTTP(rec, requestWithSession(http.MethodGet, "/auth/login", "stale"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		OptionalAuth(testSessions())(okHandler(t, "")).
			ServeHTTP(rec, requestWithSession(http.MethodGet, "/auth/login", ""))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHasRequiredRole(t *testing.T) {
	assert.True(t, hasRequiredRole(domainauth.RoleAdmin, domainauth.RoleAdmin))
	assert.True(t, hasRequiredRole(domainauth.RoleAdmin, domainauth.RoleUser))
	assert.True(t, hasRequiredRole(domainauth.RoleUser, domainauth.RoleUser))
	assert.False(t, hasRequiredRole(domainauth.RoleUser, domainauth.RoleAdmin))
	assert.False(t, hasRequiredRole(domainauth.Role("guest"), domainauth.RoleUser))
}

func TestRedirectPathForRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		currentURL string
		want       string
	}{
		{name: "get keeps request uri", method: http.MethodGet, target: "/accounts?tab=1", want: "/accounts?tab=1"},
		{name: "post falls back to root", method: http.MethodPost, target: "/items", want: "/"},
		{name: "htmx prefers current url", method: http.MethodPost, target: "/items/x/adjust", currentURL: "http://anbar.local/accounts", want: "/accounts"},
		{name: "scheme relative current url rejected", method: http.MethodGet, target: "/", currentURL: "//evil.example/x", want: "/"},
		{name: "malformed current url", method: http.MethodGet, target: "/account/password", currentURL: "http://[::1", want: "/account/password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.currentURL != "" {
				req.Header.Set("Hx-Request", "true")
				req.Header.Set("Hx-Current-Url", tt.currentURL)
			}
			assert.Equal(t, tt.want, redirectPathForRequest(req))
		})
	}
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/", safeRedirectPath(""))
	assert.Equal(t, "/accounts", safeRedirectPath("/accounts"))
	assert.Equal(t, "/", safeRedirectPath("//evil.example"))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example/"))
	assert.Equal(t, "/", safeRedirectPath("relative/path"))
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), `"msg":"panic"`)
	assert.Contains(t, logs.String(), "boom")
}

func TestLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/items", nil))

	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"path":"/items"`)
	assert.Contains(t, logs.String(), `"method":"POST"`)
}
