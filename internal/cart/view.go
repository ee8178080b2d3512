package cart

import (
	"sync"

	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/types"
)

// View is the cart as currently shown. Updates replace the whole list.
type View struct {
	metrics *metrics.StorefrontMetrics

	mu       sync.Mutex
	items    []LineItem
	entries  []types.CartEntry
	tracked  bool
	applied  int64
	released bool
}

func NewView(m *metrics.StorefrontMetrics) *View {
	return &View{metrics: m}
}

// Apply replaces the items if the view is still live and seq is newer than the
// last applied update. It reports whether the update was applied.
func (v *View) Apply(seq int64, items []LineItem) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.accept(seq) {
		return false
	}
	v.items = append([]LineItem(nil), items...)
	v.entries, v.tracked = nil, false
	return true
}

// Track is Apply for a raw server cart. The items are rebuilt from catalog
// under the view lock, and the entries are kept so Refresh can rebuild them
// when the catalog changes.
func (v *View) Track(seq int64, entries []types.CartEntry, catalog ProductLookup) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.accept(seq) {
		return false
	}
	v.entries = append([]types.CartEntry(nil), entries...)
	v.tracked = true
	v.items = Reconcile(v.entries, catalog).Items
	return true
}

// Refresh rebuilds the items from the last tracked entries against catalog.
// It does nothing once released or when no server cart has been tracked.
func (v *View) Refresh(catalog ProductLookup) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.released || !v.tracked {
		return false
	}
	v.items = Reconcile(v.entries, catalog).Items
	return true
}

// accept must be called with mu held.
func (v *View) accept(seq int64) bool {
	if v.released || seq <= v.applied {
		v.metrics.IncStale(metrics.KindCart)
		return false
	}
	v.applied = seq
	return true
}

// Items returns a copy of the current items.
func (v *View) Items() []LineItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]LineItem(nil), v.items...)
}

func (v *View) Applied() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.applied
}

// Release marks the view as gone. Later updates are discarded.
func (v *View) Release() {
	v.mu.Lock()
	v.released = true
	v.mu.Unlock()
}

func (v *View) Released() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.released
}
