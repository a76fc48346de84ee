package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/target/q-inventory/internal/data"
	domainauth "github.com/target/q-inventory/internal/domain/auth"
	"github.com/target/q-inventory/internal/domain/calendar"
	"github.com/target/q-inventory/internal/domain/model"
	apperrors "github.com/target/q-inventory/internal/errors"
	authmocks "github.com/target/q-inventory/internal/mocks/auth"
	"github.com/target/q-inventory/internal/service"
	"github.com/target/q-inventory/internal/testutil"
)

const (
	testAdminUser = "harmad"
	testAdminPass = "40222050"
	testUser      = "sara"
	testUserPass  = "1234"
)

// testApp is a fully wired router over in-memory stores.
type testApp struct {
	Router    http.Handler
	Identity  *service.IdentityService
	Inventory *service.InventoryService
	Editor    *service.QuantityEditor
	Sessions  *authmocks.MemorySessionStore
}

func testCatalog() []model.Item {
	return []model.Item{
		testutil.NewItem("روغن").WithID("oil").WithQuantity(4).WithThreshold(5).WithEmoji("🥫").Build(),
		testutil.NewItem("نان").WithID("bread").WithQuantity(25).WithThreshold(15).WithEmoji("🥖").Build(),
		testutil.NewItem("مرغ").WithID("chicken").WithQuantity(2).WithThreshold(7).WithEmoji("🍗").Build(),
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	SkipIfNoTemplates(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := authmocks.NewMemorySessionStore()
	identity := service.NewIdentityService(service.IdentityServiceOptions{
		Accounts: data.NewAccountRepo(),
		Auth:     service.IdentityAuthDeps{Sessions: sessions, Hasher: authmocks.PlainHasher{}},
		Runtime:  service.IdentityRuntime{Logger: logger},
	})
	ctx := context.Background()
	_, err := identity.EnsureAdmin(ctx, service.BootstrapAdmin{Username: testAdminUser, Password: testAdminPass, DisplayName: "مدیر"})
	require.NoError(t, err)
	_, err = identity.CreateAccount(ctx, service.CreateAccountRequest{Username: testUser, Password: testUserPass, DisplayName: "سارا"})
	require.NoError(t, err)

	inventory := service.NewInventoryService(service.InventoryServiceOptions{
		Items:  data.NewItemRepo(testCatalog()),
		Logger: logger,
	})
	editor := service.NewQuantityEditor(inventory)
	clock := service.NewCalendarClock(service.CalendarClockOptions{
		Now:    testutil.FixedTimeFunc(testutil.TestTime()),
		Logger: logger,
	})

	router := NewRouter(RouterServices{
		Identity:   identity,
		Inventory:  inventory,
		Editor:     editor,
		Calendar:   clock,
		Logger:     logger,
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})

	return &testApp{Router: router, Identity: identity, Inventory: inventory, Editor: editor, Sessions: sessions}
}

// browser is a cookie-carrying client for one test user.
type browser struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) anonymous(t *testing.T) *browser {
	t.Helper()
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

// loggedIn returns a browser that already holds a session for username.
func (a *testApp) loggedIn(t *testing.T, username, password string) *browser {
	t.Helper()
	sess, err := a.Identity.Authenticate(context.Background(), username, password)
	require.NoError(t, err)
	b := a.anonymous(t)
	b.cookies[SessionCookieName] = &http.Cookie{Name: SessionCookieName, Value: sess.ID}
	return b
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html")
	}
	rec := httptest.NewRecorder()
	b.app.Router.ServeHTTP(rec, req)

	resp := rec.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

// csrfToken makes sure the browser holds a CSRF cookie and returns it.
func (b *browser) csrfToken() string {
	b.t.Helper()
	if c, ok := b.cookies[DefaultCSRFCookieName]; ok {
		return c.Value
	}
	b.get("/auth/login")
	c, ok := b.cookies[DefaultCSRFCookieName]
	require.True(b.t, ok, "csrf cookie not issued")
	return c.Value
}

// postForm submits a classic form post carrying the CSRF token.
func (b *browser) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if values == nil {
		values = url.Values{}
	}
	values.Set(DefaultCSRFCookieName, b.csrfToken())
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// htmx issues an htmx request with the CSRF header app.js would add.
func (b *browser) htmx(method, target string, values url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Hx-Request", "true")
	if method != http.MethodGet {
		req.Header.Set(DefaultCSRFHeaderName, b.csrfToken())
	}
	return b.do(req)
}

// api issues a JSON API request, echoing the CSRF token on unsafe methods.
func (b *browser) api(method, target, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := b.apiRequest(method, target, body)
	if requiresCSRFValidation(method) {
		req.Header.Set(DefaultCSRFHeaderName, b.csrfToken())
	}
	return b.do(req)
}

// apiWithoutCSRF issues a JSON API request carrying only the session cookie.
func (b *browser) apiWithoutCSRF(method, target, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(b.apiRequest(method, target, body))
}

func (b *browser) apiRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func (a *testApp) quantity(t *testing.T, id string) int {
	t.Helper()
	item, err := a.Inventory.Get(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity
}

// editing reports whether id holds the quantity editor.
func (a *testApp) editing(id string) bool {
	cur, ok := a.Editor.Current()
	return ok && cur.ItemID == id
}

func formPost(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type stubCalendar struct{}

func (stubCalendar) Current() calendar.Date { return calendar.ToJalali(testutil.TestTime()) }

// stubIdentity rejects every session.
type stubIdentity struct{ IdentityService }

func (stubIdentity) GetSession(context.Context, string) (*domainauth.Session, error) {
	return nil, apperrors.NotFound("session")
}
