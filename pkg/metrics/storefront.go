package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stale response kinds.
const (
	KindCatalog = "catalog"
	KindCart    = "cart"
)

// Mutation outcomes.
const (
	OutcomeApplied    = "applied"
	OutcomeDiscarded  = "discarded"
	OutcomeValidation = "validation"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
)

// StorefrontMetrics records cart reconciliation and remote call behavior.
type StorefrontMetrics struct {
	orphans   prometheus.Counter
	stale     *prometheus.CounterVec
	mutations *prometheus.CounterVec
	searches  prometheus.Counter
	remote    *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	orphans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_orphan_entries_total",
		Help: "Cart entries dropped during reconciliation because the product is not in the catalog.",
	})
	stale := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stale_responses_total",
		Help: "Remote responses discarded because a newer response was already applied.",
	}, []string{"kind"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutation attempts by outcome.",
	}, []string{"outcome"})
	searches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_queries_total",
		Help: "Catalog search queries fired after debouncing.",
	})
	remote := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "remote_request_duration_seconds",
		Help:    "Duration of calls to the storefront API in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"call"})
	reg.MustRegister(orphans, stale, mutations, searches, remote)
	return &StorefrontMetrics{
		orphans:   orphans,
		stale:     stale,
		mutations: mutations,
		searches:  searches,
		remote:    remote,
	}
}

// AddOrphans counts cart entries dropped by reconciliation.
func (m *StorefrontMetrics) AddOrphans(n int) {
	if m == nil || m.orphans == nil || n <= 0 {
		return
	}
	m.orphans.Add(float64(n))
}

// IncStale counts a discarded out-of-order response.
func (m *StorefrontMetrics) IncStale(kind string) {
	if m == nil || m.stale == nil {
		return
	}
	m.stale.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncMutation counts a cart mutation by outcome.
func (m *StorefrontMetrics) IncMutation(outcome string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSearch counts a fired search query.
func (m *StorefrontMetrics) IncSearch() {
	if m == nil || m.searches == nil {
		return
	}
	m.searches.Inc()
}

// ObserveRemote records the duration of a remote call.
func (m *StorefrontMetrics) ObserveRemote(call string, duration time.Duration) {
	if m == nil || m.remote == nil {
		return
	}
	m.remote.WithLabelValues(normalizeLabel(call)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
