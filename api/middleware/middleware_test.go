package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cambroos/rentals-backend/pkg/config"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/types"
)

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if seen == "" || rec.Header().Get(requestIDHeader) != seen {
		t.Fatalf("expected generated id in context and header, got %q / %q", seen, rec.Header().Get(requestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "client-id-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "client-id-1" {
		t.Fatalf("expected caller id to be kept, got %q", seen)
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/send-order", nil))

	out := buf.String()
	if !strings.Contains(out, `"request.complete"`) || !strings.Contains(out, `"status":418`) {
		t.Fatalf("expected completion log with status, got %s", out)
	}
}

func TestRecovererWritesRelayError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/send-order", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	var payload types.RelayResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Success || payload.Error != "Internal server error" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS(config.CORSConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/send-order", nil)
	req.Header.Set("Origin", "https://cambroos.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Idempotency-Key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected preflight 200 got %d", rec.Code)
	}
	if called {
		t.Fatalf("preflight should be answered by the cors handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://cambroos.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
	allowed := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
	if !strings.Contains(allowed, "content-type") || !strings.Contains(allowed, "idempotency-key") {
		t.Fatalf("unexpected allowed headers %q", allowed)
	}
}
