package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ministore/ministore/internal/auth"
	"github.com/ministore/ministore/internal/handler"
	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/repository"
	"github.com/ministore/ministore/internal/router"
	"github.com/ministore/ministore/internal/service"
	"github.com/ministore/ministore/internal/store"
)

const testSecret = "handler-test-secret"

type testServer struct {
	*httptest.Server
	checkout *repository.CheckoutRepo
	store    *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	userRepo := repository.NewUserRepo(st)
	checkoutRepo := repository.NewCheckoutRepo(st)
	shippingRepo := repository.NewShippingRepo(st)

	authSvc := service.NewAuthService(userRepo, testSecret)
	checkoutSvc := service.NewCheckoutService(checkoutRepo)
	shippingSvc := service.NewShippingService(shippingRepo)

	r := router.New(
		testSecret,
		handler.NewAuthHandler(authSvc),
		handler.NewBuilderHandler(checkoutSvc, testSecret),
		handler.NewShippingHandler(shippingSvc, testSecret),
	)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, checkout: checkoutRepo, store: st}
}

func sessionToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, "u1", "admin@ministore.local", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Message string                 `json:"message"`
		Fields  []models.CheckoutField `json:"fields"`
	} `json:"data"`
}

func decodeEnvelope(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, raw)
	}
	return env
}

func builderNonce(t *testing.T, ts *testServer, token string) string {
	t.Helper()
	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/builder", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bootstrap status %d: %s", resp.StatusCode, raw)
	}
	var boot struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(raw, &boot); err != nil {
		t.Fatalf("decode bootstrap: %v", err)
	}
	return boot.Nonce
}

func savePayload(nonce string, fields []map[string]any) map[string]any {
	return map[string]any{
		"action": handler.SaveFieldsAction,
		handler.BuilderNonceField: nonce,
		"fields": fields,
	}
}

func TestSaveRequiresSession(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/builder/fields", "", savePayload("x", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestSaveRejectsInvalidNonce(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")

	// Seed a configuration that must survive the rejected save.
	seed := []models.CheckoutField{{ID: "name", Label: "Name", Order: 0}}
	if err := ts.checkout.Save(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	payload := savePayload("bogus-nonce", []map[string]any{
		{"id": "email", "label": "Email", "placeholder": "", "required": "0"},
	})
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/builder/fields", token, payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.StatusCode, raw)
	}
	if env := decodeEnvelope(t, raw); env.Success {
		t.Fatal("expected success=false")
	}

	stored, err := ts.checkout.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != "name" {
		t.Fatalf("store changed by rejected save: %+v", stored)
	}
}

func TestSaveRejectsWrongScopeNonce(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")

	nonce, err := auth.IssueNonce(testSecret, handler.ShippingNonceScope)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/builder/fields", token,
		savePayload(nonce, nil))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-scope nonce, got %d", resp.StatusCode)
	}
}

func TestSaveRequiresCapability(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "user")
	nonce := builderNonce(t, ts, token)

	payload := savePayload(nonce, []map[string]any{
		{"id": "email", "label": "Email", "placeholder": "", "required": "0"},
	})
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/builder/fields", token, payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.StatusCode, raw)
	}

	stored, err := ts.checkout.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("store changed by rejected save: %+v", stored)
	}
}

func TestSaveFiltersAndOrders(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	nonce := builderNonce(t, ts, token)

	payload := map[string]any{
		"action": handler.SaveFieldsAction,
		handler.BuilderNonceField: nonce,
		"fields": []any{
			map[string]any{"id": "phone", "label": "Phone", "placeholder": "", "required": "1"},
			"garbage",
			map[string]any{"id": "xyz", "label": "Bogus", "placeholder": "", "required": "1"},
			map[string]any{"id": "name", "label": "Name", "placeholder": "Enter your name", "required": "0"},
		},
	}
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/builder/fields", token, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	env := decodeEnvelope(t, raw)
	if !env.Success {
		t.Fatalf("expected success, got %s", raw)
	}

	fields := env.Data.Fields
	if len(fields) != 2 {
		t.Fatalf("expected 2 persisted fields, got %d", len(fields))
	}
	if fields[0].ID != "phone" || !fields[0].Required || fields[0].Order != 0 {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	if fields[1].ID != "name" || fields[1].Required || fields[1].Order != 1 {
		t.Fatalf("unexpected second field: %+v", fields[1])
	}
}

func TestSaveEmptyListClears(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	nonce := builderNonce(t, ts, token)

	seed := []models.CheckoutField{
		{ID: "name", Label: "Name", Order: 0},
		{ID: "email", Label: "Email", Order: 1},
	}
	if err := ts.checkout.Save(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/builder/fields", token,
		savePayload(nonce, []map[string]any{}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}

	stored, err := ts.checkout.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected cleared configuration, got %+v", stored)
	}
}

func TestBootstrapShape(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/builder", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var boot struct {
		Action     string `json:"action"`
		NonceField string `json:"nonceField"`
		Nonce      string `json:"nonce"`
		Fields     []struct {
			ID string `json:"id"`
		} `json:"fields"`
		Saved []models.CheckoutField `json:"saved"`
	}
	if err := json.Unmarshal(raw, &boot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if boot.Action != handler.SaveFieldsAction || boot.NonceField != handler.BuilderNonceField {
		t.Fatalf("unexpected coordinates: %+v", boot)
	}
	if boot.Nonce == "" {
		t.Fatal("bootstrap must carry a nonce")
	}
	if len(boot.Fields) != 8 {
		t.Fatalf("expected 8 palette fields, got %d", len(boot.Fields))
	}
	if boot.Saved == nil {
		t.Fatal("saved must be an empty array, not null")
	}
}

func TestBootstrapStoreFailureIsGeneric(t *testing.T) {
	ts := newTestServer(t)
	token := sessionToken(t, "admin")
	ts.store.Close()

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/builder", token, nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", resp.StatusCode, raw)
	}
	if strings.Contains(string(raw), "database") || strings.Contains(string(raw), "sql") {
		t.Fatalf("store error leaked to client: %s", raw)
	}
	if !strings.Contains(string(raw), "failed to load builder data") {
		t.Fatalf("expected generic message, got: %s", raw)
	}
}
