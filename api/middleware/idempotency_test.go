package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/cambroos/rentals-backend/pkg/types"
)

type fakeStore struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func sendOrderRequest(key, body string) *http.Request {
	req := requestWithPattern(http.MethodPost, "/api/send-order", "/api/send-order", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), sendOrderRequest("", `{"a":1}`))
	}
	if calls != 2 {
		t.Fatalf("expected handler to run for each keyless request, ran %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyReplaysStoredSuccess(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"a":1}` {
			t.Errorf("handler saw body %q", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"message":"Order request sent successfully"}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, sendOrderRequest("abc", `{"a":1}`))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first response 200 got %d", first.Code)
	}

	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, sendOrderRequest("abc", `{"a":1}`))
	if replay.Code != http.StatusOK {
		t.Fatalf("expected replay status 200 got %d", replay.Code)
	}
	if replay.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if replay.Header().Get(idempotencyReplayed) != "true" {
		t.Fatalf("expected replay marker header")
	}
	if strings.TrimSpace(replay.Body.String()) != strings.TrimSpace(first.Body.String()) {
		t.Fatalf("expected stored body got %s", replay.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
	for key, ttl := range store.ttls {
		if ttl != time.Hour {
			t.Fatalf("key %s stored with ttl %v", key, ttl)
		}
		if !strings.Contains(key, "POST|/api/send-order") {
			t.Fatalf("unexpected scope in key %s", key)
		}
	}
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	failed := httptest.NewRecorder()
	handler.ServeHTTP(failed, sendOrderRequest("retry-me", `{"a":1}`))
	if failed.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", failed.Code)
	}
	if len(store.data) != 0 {
		t.Fatalf("failed responses must not be recorded")
	}

	retried := httptest.NewRecorder()
	handler.ServeHTTP(retried, sendOrderRequest("retry-me", `{"a":1}`))
	if retried.Code != http.StatusOK || calls != 2 {
		t.Fatalf("expected retry to reach the handler, code=%d calls=%d", retried.Code, calls)
	}
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), sendOrderRequest("xyz", `{"a":1}`))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sendOrderRequest("xyz", `{"a":2}`))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload types.RelayResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Success || payload.Error != "idempotency key reused with different request body" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestIdempotencyStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection reset")
	called := false
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sendOrderRequest("k", `{}`))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if called {
		t.Fatalf("handler should not run when the store is unavailable")
	}
}

func TestIdempotencyNilStorePassesThrough(t *testing.T) {
	called := false
	handler := Idempotency(nil, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(httptest.NewRecorder(), sendOrderRequest("k", `{}`))
	if !called {
		t.Fatalf("expected pass-through without a store")
	}
}
