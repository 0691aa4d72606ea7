package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cambroos/rentals-backend/pkg/config"
)

func TestIncrWithTTLStartsWindowOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	key := client.RateLimitKey("quote", "ip", "1.2.3.4")

	for want := int64(1); want <= 3; want++ {
		count, err := client.IncrWithTTL(ctx, key, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != want {
			t.Fatalf("expected counter %d got %d", want, count)
		}
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected a single expire, got %d", len(mock.expireCalls))
	}
	if mock.expireCalls[0].key != key || mock.expireCalls[0].ttl != time.Minute {
		t.Fatalf("unexpected expire call %+v", mock.expireCalls[0])
	}
}

func TestIncrWithTTLPropagatesExpireError(t *testing.T) {
	mock := newMockCmdable()
	mock.expireErr = errors.New("expire failed")
	client := &Client{store: mock}

	count, err := client.IncrWithTTL(context.Background(), "k", time.Second)
	if err == nil {
		t.Fatalf("expected expire error")
	}
	if count != 1 {
		t.Fatalf("expected count to be returned alongside error, got %d", count)
	}
}

func TestIdempotencyRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}
	key := client.IdempotencyKey("POST|/api/send-order", "abc")

	if _, err := client.Get(ctx, key); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil for missing key, got %v", err)
	}
	stored, err := client.SetNX(ctx, key, "first", time.Hour)
	if err != nil || !stored {
		t.Fatalf("expected first SetNX to store, stored=%v err=%v", stored, err)
	}
	stored, err = client.SetNX(ctx, key, "second", time.Hour)
	if err != nil || stored {
		t.Fatalf("expected second SetNX to be ignored, stored=%v err=%v", stored, err)
	}
	value, err := client.Get(ctx, key)
	if err != nil || value != "first" {
		t.Fatalf("expected original value, got %q err=%v", value, err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "cambroos:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("quote", "email", "hash"); got != "cambroos:rate_limit:quote:email:hash" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.RateLimitKey("quote", "", "x"); got != "cambroos:rate_limit:quote:x" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil raw client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "localhost:6379",
		DB:          2,
		PoolSize:    7,
		DialTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 || opts.PoolSize != 7 || opts.DialTimeout != 3*time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://:secret@cache:6380/4", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 4 || opts.Password != "secret" || opts.PoolSize != 5 {
		t.Fatalf("unexpected url options %+v", opts)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
	expireErr   error
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(m.expireErr == nil, m.expireErr)
}
