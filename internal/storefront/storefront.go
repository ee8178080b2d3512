// Package storefront wires the catalog, cart and search pieces into the
// actions a shopper performs on the products page.
package storefront

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/remote"
	"github.com/angelmondragon/storefront/internal/search"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/notify"
	"github.com/angelmondragon/storefront/pkg/requestid"
	"github.com/angelmondragon/storefront/pkg/seq"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Remote is the subset of the storefront API used by the page.
type Remote interface {
	catalog.Fetcher
	cart.Updater
	GetCart(ctx context.Context, token string) ([]types.CartEntry, error)
}

type Options struct {
	Remote      Remote
	Session     session.Reader
	Notifier    notify.Notifier
	Logger      *logger.Logger
	Metrics     *metrics.StorefrontMetrics
	SearchDelay time.Duration
	// Clock drives the search debouncer. Nil uses the runtime timer.
	Clock search.Clock
	// OnSearch is called after every debounced search settles.
	OnSearch func(products []types.Product, valid bool)
}

// Summary is the cart as displayed.
type Summary struct {
	Items    []cart.LineItem `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Storefront is one open products page. Close releases it; responses that
// arrive afterwards are dropped.
type Storefront struct {
	remote   Remote
	session  session.Reader
	notifier notify.Notifier
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
	delay    time.Duration
	onSearch func([]types.Product, bool)

	catalog   *catalog.Store
	mutator   *cart.Mutator
	reconcile *cart.Reconciler
	view      *cart.View
	debouncer *search.Debouncer
	clock     *seq.Clock

	base      context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func New(opts Options) (*Storefront, error) {
	if opts.Remote == nil {
		return nil, errors.New("storefront: remote is required")
	}
	if opts.Session == nil {
		return nil, errors.New("storefront: session is required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(logg)
	}
	delay := opts.SearchDelay
	if delay <= 0 {
		delay = search.DefaultDelay
	}

	clock := seq.NewClock()
	reconciler := cart.NewReconciler(logg, opts.Metrics)
	base, cancel := context.WithCancel(context.Background())

	s := &Storefront{
		remote:    opts.Remote,
		session:   opts.Session,
		notifier:  notifier,
		logg:      logg,
		metrics:   opts.Metrics,
		delay:     delay,
		onSearch:  opts.OnSearch,
		catalog:   catalog.NewStore(opts.Remote, clock, logg, opts.Metrics),
		mutator:   cart.NewMutator(opts.Remote, reconciler, clock, logg, opts.Metrics),
		reconcile: reconciler,
		view:      cart.NewView(opts.Metrics),
		clock:     clock,
		base:      base,
		cancel:    cancel,
	}
	s.debouncer = search.New(opts.Clock, s.runSearch)
	s.catalog.OnChange(s.refreshCart)
	return s, nil
}

// Open loads the catalog and, for a logged-in shopper, the saved cart. Both
// calls run concurrently; the cart is reconciled once the catalog is in.
// Failures are reported through the notifier and also returned combined.
func (s *Storefront) Open(ctx context.Context) error {
	ctx, identity := s.identity(requestid.New(ctx, s.logg))

	var (
		g          errgroup.Group
		entries    []types.CartEntry
		cartTag    int64
		catalogErr error
		cartErr    error
	)
	g.Go(func() error {
		_, catalogErr = s.catalog.Load(ctx)
		return nil
	})
	if identity.LoggedIn() {
		cartTag = s.clock.Next()
		g.Go(func() error {
			entries, cartErr = s.remote.GetCart(ctx, identity.Token)
			return nil
		})
	}
	_ = g.Wait()

	if catalogErr != nil {
		s.notifier.Notify(ctx, notify.FromError(catalogErr))
	}
	if cartErr != nil {
		cartErr = cartFetchError(cartErr)
		s.notifier.Notify(ctx, notify.FromError(cartErr))
	}
	if identity.LoggedIn() && cartErr == nil {
		s.reconcile.Reconcile(ctx, entries, s.catalog)
		s.view.Track(cartTag, entries, s.catalog)
	}
	return multierr.Combine(catalogErr, cartErr)
}

// cartFetchError keeps a 400 message verbatim and turns anything else into
// the cart connectivity message.
func cartFetchError(err error) error {
	if remote.Status(err) == http.StatusBadRequest && pkgerrors.IsCode(err, pkgerrors.CodeRejected) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, pkgerrors.MsgCartUnavailable)
}

// Search feeds text to the debouncer.
func (s *Storefront) Search(text string) {
	s.debouncer.OnInput(text, s.delay)
}

// SearchNow runs a search immediately, bypassing the debouncer.
func (s *Storefront) SearchNow(ctx context.Context, text string) ([]types.Product, bool) {
	ctx = requestid.New(ctx, s.logg)
	products, _ := s.catalog.Search(ctx, text)
	return products, s.catalog.SearchValid()
}

func (s *Storefront) runSearch(text string) {
	ctx := requestid.New(s.base, s.logg)
	if _, err := s.catalog.Search(ctx, text); err != nil && ctx.Err() == nil {
		s.logg.Debug(ctx, "search marked invalid")
	}
	if s.onSearch != nil && ctx.Err() == nil {
		s.onSearch(s.catalog.Products(), s.catalog.SearchValid())
	}
}

// AddToCart adds one unit of productID. It is refused when the product
// already has a line.
func (s *Storefront) AddToCart(ctx context.Context, productID string) bool {
	return s.mutate(ctx, productID, 1, cart.MutateOptions{PreventDuplicate: true})
}

// SetQuantity sets productID to qty; 0 removes the line.
func (s *Storefront) SetQuantity(ctx context.Context, productID string, qty int) bool {
	return s.mutate(ctx, productID, qty, cart.MutateOptions{})
}

func (s *Storefront) mutate(ctx context.Context, productID string, qty int, opts cart.MutateOptions) bool {
	ctx, identity := s.identity(requestid.New(ctx, s.logg))

	res, err := s.mutator.Mutate(ctx, identity.Token, s.view.Items(), s.catalog, productID, qty, opts)
	if err != nil {
		s.notifier.Notify(ctx, notify.FromError(err))
		return false
	}
	if !s.view.Track(res.Seq, res.Entries, s.catalog) {
		s.metrics.IncMutation(metrics.OutcomeDiscarded)
		return false
	}
	s.metrics.IncMutation(metrics.OutcomeApplied)
	return true
}

// refreshCart rebuilds the shown cart after the catalog changes, so entries
// dropped against an older catalog come back once their product is known.
func (s *Storefront) refreshCart() {
	if s.view.Refresh(s.catalog) {
		s.logg.Debug(s.base, "cart rebuilt from catalog")
	}
}

// identity reads the session. An unreadable session counts as logged out.
func (s *Storefront) identity(ctx context.Context) (context.Context, session.Identity) {
	identity, err := s.session.Current(ctx)
	if err != nil {
		s.logg.Error(ctx, "read session", err)
		return ctx, session.Identity{}
	}
	if identity.Username != "" {
		ctx = s.logg.WithUsername(ctx, identity.Username)
	}
	return ctx, identity
}

// Cart returns the displayed items and their subtotal.
func (s *Storefront) Cart() Summary {
	items := s.view.Items()
	return Summary{Items: items, Subtotal: cart.Subtotal(items)}
}

func (s *Storefront) Products() []types.Product {
	return s.catalog.Products()
}

func (s *Storefront) SearchValid() bool {
	return s.catalog.SearchValid()
}

func (s *Storefront) Loading() bool {
	return s.catalog.Loading()
}

// Close stops the debouncer, releases the cart view and catalog, and cancels
// in-flight requests.
func (s *Storefront) Close() {
	s.closeOnce.Do(func() {
		s.debouncer.Stop()
		s.view.Release()
		s.catalog.Release()
		s.cancel()
	})
}
