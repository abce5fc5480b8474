package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	app "github.com/strideshop/storefront/internal/app"
	"github.com/strideshop/storefront/internal/app/storage/memory"
	"github.com/strideshop/storefront/pkg/logger"
)

func newTestHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()

	staticDir := t.TempDir()
	pages := map[string]string{
		"login.html":  "<html><body>login page</body></html>",
		"signup.html": "<html><body>signup page</body></html>",
		"home.html":   "<html><body>home page</body></html>",
	}
	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(staticDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write static page: %v", err)
		}
	}

	store := memory.New()
	application, err := app.New(app.Stores{Users: store, Orders: store}, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("build application: %v", err)
	}

	return NewHandler(application, Config{StaticDir: staticDir}, logger.NewDefault("test")), store
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestSignupCreatesUser(t *testing.T) {
	h, store := newTestHandler(t)

	rec := postJSON(t, h, "/api/signup", `{"name":"Ada","email":"ada@example.com","password":"secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["redirect"] != "/home.html" {
		t.Fatalf("expected redirect to /home.html, got %q", body["redirect"])
	}
	if store.UserCount() != 1 {
		t.Fatalf("expected 1 user, got %d", store.UserCount())
	}
}

func TestSignupMissingFields(t *testing.T) {
	h, store := newTestHandler(t)

	rec := postJSON(t, h, "/api/signup", `{"name":"Ada","email":"","password":"secret"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body["error"])
	}
	if store.UserCount() != 0 {
		t.Fatalf("expected no users, got %d", store.UserCount())
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, store := newTestHandler(t)

	first := postJSON(t, h, "/api/signup", `{"name":"Ada","email":"ada@example.com","password":"secret"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", first.Code)
	}
	second := postJSON(t, h, "/api/signup", `{"name":"Other","email":"ada@example.com","password":"different"}`)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d", second.Code)
	}
	if body := decodeBody(t, second); body["error"] != "conflict" {
		t.Fatalf("expected conflict, got %q", body["error"])
	}
	if store.UserCount() != 1 {
		t.Fatalf("expected exactly 1 user after duplicate signup, got %d", store.UserCount())
	}
}

func TestSignupRejectsUnknownFields(t *testing.T) {
	h, store := newTestHandler(t)

	rec := postJSON(t, h, "/api/signup", `{"name":"Ada","email":"ada@example.com","password":"secret","role":"admin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
	if store.UserCount() != 0 {
		t.Fatalf("expected no users, got %d", store.UserCount())
	}
}

func TestLoginFlow(t *testing.T) {
	h, _ := newTestHandler(t)

	if rec := postJSON(t, h, "/api/signup", `{"name":"Ada","email":"ada@example.com","password":"secret"}`); rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rec.Code)
	}

	ok := postJSON(t, h, "/api/login", `{"email":"ada@example.com","password":"secret"}`)
	if ok.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", ok.Code, ok.Body.String())
	}
	if body := decodeBody(t, ok); body["redirect"] != "/home.html" {
		t.Fatalf("expected redirect hint, got %q", body["redirect"])
	}

	wrong := postJSON(t, h, "/api/login", `{"email":"ada@example.com","password":"nope"}`)
	if wrong.Code != http.StatusBadRequest {
		t.Fatalf("wrong password: expected 400, got %d", wrong.Code)
	}
	if body := decodeBody(t, wrong); body["error"] != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %q", body["error"])
	}

	unknown := postJSON(t, h, "/api/login", `{"email":"nobody@example.com","password":"secret"}`)
	if unknown.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", unknown.Code)
	}
	if body := decodeBody(t, unknown); body["error"] != "not_found" {
		t.Fatalf("expected not_found, got %q", body["error"])
	}
}

func TestOrderPlacement(t *testing.T) {
	h, store := newTestHandler(t)

	payload := `{"name":"Ada","phone":"555-0100","address":"1 Main St","product":"hoodie","size":"M","color":"black","price":39.99}`
	for i := 0; i < 2; i++ {
		rec := postJSON(t, h, "/api/order", payload)
		if rec.Code != http.StatusCreated {
			t.Fatalf("order %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
	if store.OrderCount() != 2 {
		t.Fatalf("expected 2 orders from identical submissions, got %d", store.OrderCount())
	}
}

func TestOrderMissingPrice(t *testing.T) {
	h, store := newTestHandler(t)

	rec := postJSON(t, h, "/api/order", `{"name":"Ada","phone":"555-0100","address":"1 Main St","product":"hoodie"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body["error"])
	}
	if store.OrderCount() != 0 {
		t.Fatalf("expected no orders, got %d", store.OrderCount())
	}
}

func TestOrderMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h, "/api/order", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestStaticPages(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		path string
		want string
	}{
		{"/", "login page"},
		{"/signup", "signup page"},
		{"/home.html", "home page"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", tc.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("GET %s: expected body containing %q, got %q", tc.path, tc.want, rec.Body.String())
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "healthy" {
		t.Fatalf("expected healthy status, got %q", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	// Generate some traffic first so the counters exist.
	postJSON(t, h, "/api/signup", `{"name":"Ada","email":"metrics@example.com","password":"secret"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "storefront_accounts_signups_total") {
		t.Fatalf("expected signup counter in metrics output")
	}
}

func TestAuditTrailRecordsRequests(t *testing.T) {
	h, _ := newTestHandler(t)
	audit := NewAuditLog(10, nil)
	wrapped := WrapWithAudit(h, audit)

	req := httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	entries := audit.List()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Path != "/api/order" || entries[0].Status != http.StatusBadRequest {
		t.Fatalf("unexpected audit entry: %+v", entries[0])
	}
}

func TestAuditLogEviction(t *testing.T) {
	audit := NewAuditLog(2, nil)
	for i := 0; i < 5; i++ {
		audit.add(AuditEntry{Path: "/healthz", Status: http.StatusOK})
	}
	if got := len(audit.List()); got != 2 {
		t.Fatalf("expected log capped at 2 entries, got %d", got)
	}
}

func TestFileAuditSinkWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	sink, err := NewFileAuditSink(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}

	audit := NewAuditLog(10, sink)
	audit.add(AuditEntry{Path: "/api/signup", Method: http.MethodPost, Status: http.StatusCreated})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sink file: %v", err)
	}
	var entry AuditEntry
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("decode sink line: %v", err)
	}
	if entry.Path != "/api/signup" || entry.Status != http.StatusCreated {
		t.Fatalf("unexpected persisted entry: %+v", entry)
	}
}
