// Package catalog holds the product list the shopper is looking at.
package catalog

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/seq"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Fetcher is the remote product API.
type Fetcher interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	SearchProducts(ctx context.Context, text string) ([]types.Product, error)
}

// Store keeps the shown product list and an index of every product the
// client currently knows. Load and Search replace the shown list wholesale.
// A Load also replaces the index; a Search only adds to it, so carted
// products stay resolvable while the list is narrowed.
type Store struct {
	remote  Fetcher
	clock   *seq.Clock
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics

	mu       sync.RWMutex
	products []types.Product
	known    map[string]types.Product
	valid    bool
	applied  int64
	loading  int
	released bool
	onChange func()
}

func NewStore(remote Fetcher, clock *seq.Clock, logg *logger.Logger, m *metrics.StorefrontMetrics) *Store {
	if clock == nil {
		clock = seq.NewClock()
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		remote:  remote,
		clock:   clock,
		logg:    logg,
		metrics: m,
		known:   map[string]types.Product{},
		valid:   true,
	}
}

// Load fetches the full catalog. On failure the current list is left as is
// and the error carries the catalog connectivity message.
func (s *Store) Load(ctx context.Context) ([]types.Product, error) {
	tag := s.clock.Next()
	ctx = s.logg.WithSeq(ctx, tag)

	s.setLoading(1)
	products, err := s.remote.ListProducts(ctx)
	s.setLoading(-1)
	if err != nil {
		s.logg.Error(ctx, "catalog load failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, pkgerrors.MsgCatalogUnavailable)
	}

	s.mu.Lock()
	if !s.advance(tag) {
		s.mu.Unlock()
		s.logg.Debug(ctx, "discarded stale catalog load")
		return products, nil
	}
	s.products = products
	s.known = make(map[string]types.Product, len(products))
	s.index(products)
	s.valid = len(products) > 0
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return products, nil
}

// Search replaces the shown list with the products matching text. Blank
// text shows the full catalog again. A failed or empty search marks the
// results invalid and keeps the list untouched on failure.
func (s *Store) Search(ctx context.Context, text string) ([]types.Product, error) {
	if strings.TrimSpace(text) == "" {
		return s.Load(ctx)
	}

	tag := s.clock.Next()
	ctx = s.logg.WithField(s.logg.WithSeq(ctx, tag), "query", text)
	s.metrics.IncSearch()

	products, err := s.remote.SearchProducts(ctx, text)

	s.mu.Lock()
	if !s.advance(tag) {
		s.mu.Unlock()
		s.logg.Debug(ctx, "discarded stale search response")
		return products, err
	}
	if err != nil {
		s.valid = false
		s.mu.Unlock()
		s.logg.Warn(ctx, "search failed: "+err.Error())
		return nil, err
	}
	s.products = products
	s.index(products)
	s.valid = len(products) > 0
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return products, nil
}

// OnChange registers fn to run after every load or search that changes the
// known products. fn runs without the store lock held.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Release detaches the store from its page. Responses that arrive afterwards
// are discarded and the shown state stays frozen.
func (s *Store) Release() {
	s.mu.Lock()
	s.released = true
	s.mu.Unlock()
}

// advance must be called with mu held.
func (s *Store) advance(tag int64) bool {
	if s.released || tag <= s.applied {
		s.metrics.IncStale(metrics.KindCatalog)
		return false
	}
	s.applied = tag
	return true
}

func (s *Store) index(products []types.Product) {
	for _, p := range products {
		s.known[p.ID] = p
	}
}

func (s *Store) setLoading(delta int) {
	s.mu.Lock()
	s.loading += delta
	s.mu.Unlock()
}

// Lookup resolves a product id against every product currently known.
func (s *Store) Lookup(id string) (types.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.known[id]
	return p, ok
}

// Products returns a copy of the shown list.
func (s *Store) Products() []types.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Product(nil), s.products...)
}

// SearchValid is false after a failed or empty search.
func (s *Store) SearchValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valid
}

// Loading reports whether a full catalog load is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}
