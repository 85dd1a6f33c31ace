package handler_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/ministore/ministore/internal/handler"
	"github.com/ministore/ministore/internal/models"
)

func shippingNonce(t *testing.T, ts *testServer, token string) string {
	t.Helper()
	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/shipping", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settings status %d: %s", resp.StatusCode, raw)
	}
	var out struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	return out.Nonce
}

func TestShippingSave(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	nonce := shippingNonce(t, ts, token)

	payload := map[string]any{
		"action": handler.SaveShippingAction,
		handler.ShippingNonceField: nonce,
		"method": "single",
		"charge_single": 80,
		"cod_label": "Pay on delivery",
	}
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/shipping", token, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Settings models.ShippingSettings `json:"settings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success, got %s", raw)
	}
	if env.Data.Settings.Method != models.ShippingSingle || env.Data.Settings.ChargeSingle != 80 {
		t.Fatalf("unexpected settings: %+v", env.Data.Settings)
	}
}

func TestShippingSaveCoercesStringCharges(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	nonce := shippingNonce(t, ts, token)

	payload := map[string]any{
		"action": handler.SaveShippingAction,
		handler.ShippingNonceField: nonce,
		"method": "double",
		"charge_dhaka": "60",
		"charge_outside": "110.5",
		"cod_label": "Cash on Delivery",
	}
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/shipping", token, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}

	var env struct {
		Data struct {
			Settings models.ShippingSettings `json:"settings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Settings.ChargeDhaka != 60 || env.Data.Settings.ChargeOutside != 110.5 {
		t.Fatalf("string charges not coerced: %+v", env.Data.Settings)
	}
}

func TestShippingSettingsStoreFailureIsGeneric(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	ts.store.Close()

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/shipping", token, nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", resp.StatusCode, raw)
	}
	if strings.Contains(string(raw), "database") || strings.Contains(string(raw), "sql") {
		t.Fatalf("store error leaked to client: %s", raw)
	}
}

func TestShippingSaveRejectsBadMethod(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	nonce := shippingNonce(t, ts, token)

	payload := map[string]any{
		"action": handler.SaveShippingAction,
		handler.ShippingNonceField: nonce,
		"method": "drone",
	}
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/shipping", token, payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.StatusCode, raw)
	}
}

func TestShippingSaveRejectsBuilderNonce(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	nonce := builderNonce(t, ts, token)

	payload := map[string]any{
		"action": handler.SaveShippingAction,
		handler.ShippingNonceField: nonce,
		"method": "free",
	}
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/shipping", token, payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-scope nonce, got %d", resp.StatusCode)
	}
}
