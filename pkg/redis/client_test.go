package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestSetAllGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.SetAll(ctx, map[string]string{
		client.SessionKey("token"):    "abc",
		client.SessionKey("username"): "crio",
	}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.msetCalls != 1 {
		t.Fatalf("expected a single MSET, got %d", mock.msetCalls)
	}

	value, found, err := client.Get(ctx, client.SessionKey("token"))
	if err != nil || !found || value != "abc" {
		t.Fatalf("unexpected get result value=%q found=%v err=%v", value, found, err)
	}

	if err := client.Del(ctx, client.SessionKey("token"), client.SessionKey("username")); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	_, found, err = client.Get(ctx, client.SessionKey("token"))
	if err != nil {
		t.Fatalf("missing key should not be an error: %v", err)
	}
	if found {
		t.Fatalf("expected key to be gone after del")
	}
}

func TestSetAllEmptyIsNoop(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}
	if err := client.SetAll(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.msetCalls != 0 {
		t.Fatalf("expected no MSET for empty input")
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping on uninitialized client to fail")
	}
	if _, _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected get on uninitialized client to fail")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close without raw client should be a no-op: %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.SessionKey("token"); got != "storefront:session:token" {
		t.Fatalf("unexpected session key %s", got)
	}
	client = &Client{namespace: "shop"}
	if got := client.SessionKey("balance"); got != "shop:session:balance" {
		t.Fatalf("unexpected namespaced key %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/3", PoolSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 3 || opts.PoolSize != 4 {
		t.Fatalf("unexpected options db=%d pool=%d", opts.DB, opts.PoolSize)
	}
	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 {
		t.Fatalf("unexpected options addr=%s db=%d", opts.Addr, opts.DB)
	}
}

type mockCmdable struct {
	data      map[string]string
	msetCalls int
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) MSet(ctx context.Context, values ...any) *redis.StatusCmd {
	m.msetCalls++
	for i := 0; i+1 < len(values); i += 2 {
		m.data[fmt.Sprint(values[i])] = fmt.Sprint(values[i+1])
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
