package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cambroos/rentals-backend/internal/relay"
	"github.com/cambroos/rentals-backend/pkg/config"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/metrics"
	"github.com/cambroos/rentals-backend/pkg/types"
)

type stubRelay struct{ calls int }

func (s *stubRelay) Relay(context.Context, types.OrderRequest) (*relay.Result, error) {
	s.calls++
	return &relay.Result{Reference: "ref", OperatorSent: true, ConfirmationSent: true}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: config.AppEnvDev, Port: "0"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.QuoteRateLimitConfig{Window: time.Minute, IPLimit: 1, EmailLimit: 1},
		Eventing:  config.EventingConfig{IdempotencyTTL: time.Hour},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *stubRelay) {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := &stubRelay{}
	return NewRouter(Params{
		Config:   testConfig(),
		Logger:   logger.Nop(),
		Relay:    svc,
		Metrics:  metrics.NewRelayMetrics(reg),
		Gatherer: reg,
	}), svc
}

const order = `{"firstName":"Jane","lastName":"Tan","email":"jane@example.com","phone":"1",
"startDate":"2026-11-01","endDate":"2026-11-05","country":"central","cartItems":[]}`

func TestRouterSendOrderWithoutRedis(t *testing.T) {
	router, svc := newTestRouter(t)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/send-order", strings.NewReader(order))
		req.Header.Set("Idempotency-Key", "same")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d (%s)", i, resp.Code, resp.Body.String())
		}
		if resp.Header().Get("X-Request-Id") == "" {
			t.Fatalf("expected request id header")
		}
	}
	if svc.calls != 3 {
		t.Fatalf("without redis every request reaches the relay, got %d", svc.calls)
	}
}

func TestRouterSendOrderPreflightAndMethods(t *testing.T) {
	router, svc := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/send-order", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.Len() != 0 {
		t.Fatalf("expected empty 200 for OPTIONS, got %d %q", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/send-order", nil)
	req.Header.Set("Origin", "https://cambroos.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS preflight, got %d %v", resp.Code, resp.Header())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/send-order", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", resp.Code)
	}
	var payload types.RelayResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil || payload.Error != "Method not allowed" {
		t.Fatalf("unexpected 405 body %s (%v)", resp.Body.String(), err)
	}
	if svc.calls != 0 {
		t.Fatalf("relay should not be reached")
	}
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	for path, want := range map[string]string{
		"/api/health":   `"Email service is running"`,
		"/health/live":  `"live"`,
		"/health/ready": `"ready"`,
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), want) {
			t.Fatalf("%s: unexpected response %d %s", path, resp.Code, resp.Body.String())
		}
	}

	post := httptest.NewRecorder()
	router.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/api/send-order", strings.NewReader(`{}`)))
	if post.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", post.Code)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(resp.Body)
	if resp.Code != http.StatusOK || !strings.Contains(string(body), `quote_requests_total{outcome="invalid"} 1`) {
		t.Fatalf("expected metrics exposition, got %d %s", resp.Code, body)
	}
}
