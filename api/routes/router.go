package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// CartSource exposes the displayed cart.
type CartSource interface {
	Cart() storefront.Summary
	SearchValid() bool
}

// NewRouter serves health, metrics and a read-only snapshot of the open
// storefront. cart may be nil before a page is opened.
func NewRouter(cfg *config.Config, logg *logger.Logger, gatherer prometheus.Gatherer, cart CartSource) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/debug/cart", func(w http.ResponseWriter, _ *http.Request) {
		if cart == nil {
			responses.WriteSuccess(w, storefront.Summary{Items: nil})
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"cart":         cart.Cart(),
			"search_valid": cart.SearchValid(),
		})
	})

	return r
}
