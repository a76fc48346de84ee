package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, IsHTMX(r2))
	assert.False(t, WantsPartial(r2))
}

func TestHTMX_TargetRead(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	r.Header.Set("Hx-Target", "inventory-panel")
	assert.Equal(t, "inventory-panel", HXTarget(r))
}

func TestHTMX_Redirect(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Redirect("/auth/login")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "/auth/login", rr.Header().Get("Hx-Redirect"))
}

func TestHTMX_Trigger(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXTrigger(rr, "saved", map[string]any{"id": "123"})

	var payload map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, "123", payload["saved"]["id"])

	rr = httptest.NewRecorder()
	SetHXTrigger(rr, "refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rr.Header().Get("Hx-Trigger"))
}

func TestTriggerToast(t *testing.T) {
	rr := httptest.NewRecorder()
	triggerToast(rr, "موجودی ذخیره شد", "success")

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, "موجودی ذخیره شد", payload["showToast"]["message"])
	assert.Equal(t, "success", payload["showToast"]["type"])

	empty := httptest.NewRecorder()
	triggerToast(empty, "  ", "error")
	assert.Empty(t, empty.Header().Get("Hx-Trigger"))
}
