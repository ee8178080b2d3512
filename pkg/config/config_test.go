package config

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/shopper")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if got := cfg.Search.Debounce; got != 500*time.Millisecond {
		t.Fatalf("expected debounce 500ms, got %v", got)
	}
	if got := cfg.Remote.Timeout; got != 10*time.Second {
		t.Fatalf("expected timeout 10s, got %v", got)
	}
	if cfg.Session.Backend != enums.SessionBackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Session.Backend)
	}
	if cfg.Session.SQLitePath != "/home/shopper/.storefront/session.db" {
		t.Fatalf("expected expanded sqlite path, got %q", cfg.Session.SQLitePath)
	}
	if cfg.Metrics.Enabled() {
		t.Fatalf("metrics should be disabled without an address")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvRemoteEndpoint, "http://localhost:8082/api/v1")
	t.Setenv(EnvSearchDebounce, "250ms")
	t.Setenv(EnvSessionBackend, "Redis")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvMetricsAddr, ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Remote.Endpoint != "http://localhost:8082/api/v1" {
		t.Fatalf("unexpected endpoint %q", cfg.Remote.Endpoint)
	}
	if cfg.Search.Debounce != 250*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.Search.Debounce)
	}
	if cfg.Session.Backend != enums.SessionBackendRedis {
		t.Fatalf("unexpected backend %q", cfg.Session.Backend)
	}
	if !cfg.Metrics.Enabled() {
		t.Fatalf("metrics should be enabled")
	}
}

func TestLoad_RedisBackendRequiresLocation(t *testing.T) {
	t.Setenv(EnvSessionBackend, "redis")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvRedisAddr, "")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without url or addr to fail")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		EnvRemoteEndpoint: "ftp://example.com",
		EnvRemoteTimeout:  "0s",
		EnvSessionBackend: "floppy",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected %s=%q to be rejected", key, value)
			}
		})
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
