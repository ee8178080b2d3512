package cart

import (
	"context"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/seq"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	MsgLoginRequired = "Login to add an item to the Cart"
	MsgAlreadyInCart = "Item already in cart. Use the cart sidebar to update quantity or remove item."
	MsgInvalidQty    = "Quantity cannot be negative"
)

// Updater posts a cart change and returns the full updated cart.
type Updater interface {
	UpdateCart(ctx context.Context, token, productID string, qty int) ([]types.CartEntry, error)
}

type MutateOptions struct {
	// PreventDuplicate blocks the call when the product already has a line.
	PreventDuplicate bool
}

// Result is a reconciled cart tagged with the sequence number of its request.
// Entries is the raw list the server returned.
type Result struct {
	Items   []LineItem
	Entries []types.CartEntry
	Seq     int64
}

// Mutator applies add and set-quantity actions against the remote cart.
type Mutator struct {
	remote     Updater
	reconciler *Reconciler
	clock      *seq.Clock
	logg       *logger.Logger
	metrics    *metrics.StorefrontMetrics
}

func NewMutator(remote Updater, reconciler *Reconciler, clock *seq.Clock, logg *logger.Logger, m *metrics.StorefrontMetrics) *Mutator {
	if logg == nil {
		logg = logger.Nop()
	}
	if reconciler == nil {
		reconciler = NewReconciler(logg, m)
	}
	if clock == nil {
		clock = seq.NewClock()
	}
	return &Mutator{remote: remote, reconciler: reconciler, clock: clock, logg: logg, metrics: m}
}

// Mutate sets productID to qty in the remote cart and reconciles the returned
// list against catalog. Guard failures return before any network call. There
// are no retries; on error the caller's view must stay as it was.
func (m *Mutator) Mutate(ctx context.Context, token string, current []LineItem, catalog ProductLookup, productID string, qty int, opts MutateOptions) (Result, error) {
	ctx = m.logg.WithProductID(ctx, productID)

	if token == "" {
		m.metrics.IncMutation(metrics.OutcomeValidation)
		return Result{}, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgLoginRequired)
	}
	if opts.PreventDuplicate && Contains(current, productID) {
		m.metrics.IncMutation(metrics.OutcomeValidation)
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, MsgAlreadyInCart)
	}
	if qty < 0 {
		m.metrics.IncMutation(metrics.OutcomeValidation)
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidQty)
	}

	tag := m.clock.Next()
	ctx = m.logg.WithSeq(ctx, tag)

	entries, err := m.remote.UpdateCart(ctx, token, productID, qty)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeRejected) || pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			m.metrics.IncMutation(metrics.OutcomeRejected)
			m.logg.Warn(ctx, "cart update rejected")
		} else {
			m.metrics.IncMutation(metrics.OutcomeFailed)
			m.logg.Error(ctx, "cart update failed", err)
		}
		return Result{}, err
	}

	items := m.reconciler.Reconcile(ctx, entries, catalog)
	m.logg.Debug(ctx, "cart updated")
	return Result{Items: items, Entries: entries, Seq: tag}, nil
}
