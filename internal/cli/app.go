package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/remote"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/notify"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

// App holds everything one CLI invocation needs.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.StorefrontMetrics
	Remote   *remote.Client
	Session  *session.Context
	Notifier notify.Notifier
	Auth     *auth.Service
}

// NewApp loads configuration and opens the session backend. Notifications
// are printed to out.
func NewApp(ctx context.Context, opts *RootOptions, out io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.App.LogLevel)
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	logg := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       level,
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		ErrorStack:  cfg.App.LogErrorStack,
		Output:      os.Stderr,
	})

	registry := prometheus.NewRegistry()
	m := metrics.NewStorefrontMetrics(registry)

	client, err := remote.NewClient(cfg.Remote, nil, logg, m)
	if err != nil {
		return nil, err
	}

	sess, err := session.Open(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}

	var notifier notify.Notifier = notify.NewWriterNotifier(out)
	if opts.Verbose {
		notifier = notify.Multi(notifier, notify.NewLogNotifier(logg))
	}

	return &App{
		Config:   cfg,
		Logger:   logg,
		Registry: registry,
		Metrics:  m,
		Remote:   client,
		Session:  sess,
		Notifier: notifier,
		Auth:     auth.NewService(client, sess, notifier, logg),
	}, nil
}

// NewStorefront builds a products page without loading it.
func (a *App) NewStorefront(onSearch func([]types.Product, bool)) (*storefront.Storefront, error) {
	return storefront.New(storefront.Options{
		Remote:      a.Remote,
		Session:     a.Session,
		Notifier:    a.Notifier,
		Logger:      a.Logger,
		Metrics:     a.Metrics,
		SearchDelay: a.Config.Search.Debounce,
		OnSearch:    onSearch,
	})
}

// OpenStorefront builds and opens the products page. The storefront is
// returned even when loading failed so callers can still show what did load;
// it is nil only when it could not be built.
func (a *App) OpenStorefront(ctx context.Context, onSearch func([]types.Product, bool)) (*storefront.Storefront, error) {
	sf, err := a.NewStorefront(onSearch)
	if err != nil {
		return nil, err
	}
	return sf, sf.Open(ctx)
}

// ServeMetrics starts the metrics listener when configured. The returned
// function shuts it down.
func (a *App) ServeMetrics(ctx context.Context, sf *storefront.Storefront) func() error {
	if !a.Config.Metrics.Enabled() {
		return func() error { return nil }
	}
	server := &http.Server{
		Addr:              a.Config.Metrics.Addr,
		Handler:           routes.NewRouter(a.Config, a.Logger, a.Registry, sf),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logCtx := a.Logger.WithField(ctx, "addr", server.Addr)
	go func() {
		a.Logger.Info(logCtx, "starting metrics server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Error(logCtx, "metrics server stopped unexpectedly", err)
		}
	}()
	return func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (a *App) Close() error {
	var err error
	if a.Session != nil {
		err = multierr.Append(err, a.Session.Close())
	}
	return err
}
