// Package cart turns the server's minimal cart into display-ready line items
// and applies cart mutations.
package cart

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductLookup resolves a product id against the loaded catalog.
type ProductLookup interface {
	Lookup(id string) (types.Product, bool)
}

// LineItem is a cart entry joined with its catalog product.
type LineItem struct {
	Product  types.Product `json:"product"`
	Quantity int           `json:"qty"`
}

// LineTotal is cost times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Product.Cost.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums the line totals of items.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Contains reports whether productID already has a line in items.
func Contains(items []LineItem, productID string) bool {
	for _, item := range items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Reconciliation is the result of joining raw entries with the catalog.
type Reconciliation struct {
	Items []LineItem
	// Orphans are product ids that were dropped because the catalog does not know them.
	Orphans []string
}

// Reconcile joins entries with catalog in input order. Entries whose product
// cannot be resolved are left out and listed in Orphans. It has no side effects.
func Reconcile(entries []types.CartEntry, catalog ProductLookup) Reconciliation {
	out := Reconciliation{Items: make([]LineItem, 0, len(entries))}
	for _, entry := range entries {
		var (
			product types.Product
			ok      bool
		)
		if catalog != nil {
			product, ok = catalog.Lookup(entry.ProductID)
		}
		if !ok {
			out.Orphans = append(out.Orphans, entry.ProductID)
			continue
		}
		out.Items = append(out.Items, LineItem{Product: product, Quantity: entry.Qty})
	}
	return out
}

// Reconciler runs Reconcile and reports dropped entries.
type Reconciler struct {
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

func NewReconciler(logg *logger.Logger, m *metrics.StorefrontMetrics) *Reconciler {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Reconciler{logg: logg, metrics: m}
}

func (r *Reconciler) Reconcile(ctx context.Context, entries []types.CartEntry, catalog ProductLookup) []LineItem {
	result := Reconcile(entries, catalog)
	if n := len(result.Orphans); n > 0 {
		r.metrics.AddOrphans(n)
		ctx = r.logg.WithFields(ctx, map[string]any{
			"orphans":      strings.Join(result.Orphans, ","),
			"orphan_count": n,
		})
		r.logg.Warn(ctx, "dropped cart entries missing from catalog")
	}
	return result.Items
}
