package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/env"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvLogLevel       = "STOREFRONT_LOG_LEVEL"
	EnvRemoteEndpoint = "STOREFRONT_REMOTE_ENDPOINT"
	EnvRemoteTimeout  = "STOREFRONT_REMOTE_TIMEOUT"
	EnvSearchDebounce = "STOREFRONT_SEARCH_DEBOUNCE"
	EnvSessionBackend = "STOREFRONT_SESSION_BACKEND"
	EnvSessionSQLite  = "STOREFRONT_SESSION_SQLITE_PATH"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisAddr      = "STOREFRONT_REDIS_ADDR"
	EnvMetricsAddr    = "STOREFRONT_METRICS_ADDR"
)

type Config struct {
	App     AppConfig
	Remote  RemoteConfig
	Search  SearchConfig
	Session SessionConfig
	Redis   RedisConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Remote.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.normalize(); err != nil {
		return nil, err
	}
	if cfg.Session.Backend == enums.SessionBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("either %s or %s is required for the redis session backend", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env           string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel      string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"STOREFRONT_LOG_FORMAT"`
	LogWarnStack  bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogErrorStack bool   `envconfig:"STOREFRONT_LOG_ERROR_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RemoteConfig points the client at the storefront API.
type RemoteConfig struct {
	Endpoint string        `envconfig:"STOREFRONT_REMOTE_ENDPOINT" default:"https://qkart-frontend-vimal.herokuapp.com/api/v1"`
	Timeout  time.Duration `envconfig:"STOREFRONT_REMOTE_TIMEOUT" default:"10s"`
}

func (r RemoteConfig) validate() error {
	u, err := url.Parse(r.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", EnvRemoteEndpoint, r.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url, got %q", EnvRemoteEndpoint, r.Endpoint)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvRemoteTimeout)
	}
	return nil
}

type SearchConfig struct {
	Debounce time.Duration `envconfig:"STOREFRONT_SEARCH_DEBOUNCE" default:"500ms"`
}

type SessionConfig struct {
	BackendName string `envconfig:"STOREFRONT_SESSION_BACKEND" default:"sqlite"`
	SQLitePath  string `envconfig:"STOREFRONT_SESSION_SQLITE_PATH" default:"~/.storefront/session.db"`

	Backend enums.SessionBackend `ignored:"true"`
}

func (s *SessionConfig) normalize() error {
	backend, err := enums.ParseSessionBackend(s.BackendName)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvSessionBackend, err)
	}
	s.Backend = backend
	s.SQLitePath = env.ExpandHome(s.SQLitePath)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"STOREFRONT_REDIS_KEY_PREFIX" default:"storefront"`
}

// MetricsConfig controls the optional /metrics listener; an empty address disables it.
type MetricsConfig struct {
	Addr string `envconfig:"STOREFRONT_METRICS_ADDR"`
}

func (m MetricsConfig) Enabled() bool {
	return strings.TrimSpace(m.Addr) != ""
}
