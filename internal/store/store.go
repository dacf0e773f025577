// Package store owns the storefront state for one user session and runs
// the side effects (remote calls, notice timers) behind each action.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/notice"
	"github.com/xenking/storefront/internal/storefront"
)

// ErrEmptyCart is returned by PlaceOrder when there is nothing to order.
var ErrEmptyCart = order.ErrEmptyItems

// CatalogLoader loads the product list.
type CatalogLoader interface {
	Load(ctx context.Context) ([]product.Product, error)
}

// Config holds the store's behavioural settings.
type Config struct {
	// OrderNoticeTTL is how long the order confirmation stays visible.
	OrderNoticeTTL time.Duration
	// RequireLogin gates the products and cart pages behind login.
	RequireLogin bool
}

// Store serialises every transition under one mutex. Remote calls run
// without the lock and report back through further actions, so concurrent
// requests may interleave but never lose an update.
type Store struct {
	policy  storefront.Policy
	catalog CatalogLoader
	auth    auth.Service
	orders  *order.Placer
	notices *notice.Scheduler
	lg      *zap.Logger

	actions metric.Int64Counter
	orderN  metric.Int64Counter

	mu    sync.Mutex
	state storefront.State
}

// New creates a Store in the initial state.
func New(
	cfg Config,
	catalog CatalogLoader,
	authSvc auth.Service,
	lg *zap.Logger,
	meter metric.Meter,
) (*Store, error) {
	actions, err := meter.Int64Counter("storefront.actions",
		metric.WithDescription("Storefront state transitions by action"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create actions counter")
	}
	orderN, err := meter.Int64Counter("storefront.orders",
		metric.WithDescription("Orders placed"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create orders counter")
	}

	s := &Store{
		policy:  storefront.Policy{RequireLogin: cfg.RequireLogin},
		catalog: catalog,
		auth:    authSvc,
		orders:  order.NewPlacer(),
		lg:      lg,
		actions: actions,
		orderN:  orderN,
		state:   storefront.Initial(),
	}
	s.notices = notice.New(cfg.OrderNoticeTTL, s.expireNotice)
	return s, nil
}

// State returns the current state. The returned value must be treated as
// read-only.
func (s *Store) State() storefront.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels the pending notice expiry.
func (s *Store) Close() {
	s.notices.Stop()
}

func (s *Store) dispatch(ctx context.Context, a storefront.Action) storefront.State {
	s.mu.Lock()
	s.state = s.policy.Reduce(s.state, a)
	next := s.state
	s.mu.Unlock()

	s.actions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", a.Name())))
	return next
}

// Init loads the catalog once. A failure is logged and leaves the catalog
// empty; it is also returned so the caller can report it.
func (s *Store) Init(ctx context.Context) error {
	products, err := s.catalog.Load(ctx)
	if err != nil {
		s.lg.Error("Failed to fetch products", zap.Error(err))
		s.dispatch(ctx, storefront.CatalogLoadFailed{})
		return errors.Wrap(err, "load catalog")
	}
	s.lg.Info("Catalog loaded", zap.Int("count", len(products)))
	s.dispatch(ctx, storefront.CatalogLoaded{Products: products})
	return nil
}

// Navigate switches the active page.
func (s *Store) Navigate(ctx context.Context, page storefront.Page) storefront.State {
	return s.dispatch(ctx, storefront.Navigate{Page: page})
}

// SetCredentials records the register/login form input.
func (s *Store) SetCredentials(ctx context.Context, username, password string) storefront.State {
	return s.dispatch(ctx, storefront.SetCredentials{Username: username, Password: password})
}

// Register submits the pending credentials for registration.
func (s *Store) Register(ctx context.Context) storefront.State {
	return s.authenticate(ctx, storefront.AuthRegister, s.auth.Register)
}

// Login submits the pending credentials for login.
func (s *Store) Login(ctx context.Context) storefront.State {
	return s.authenticate(ctx, storefront.AuthLogin, s.auth.Login)
}

type authFunc func(ctx context.Context, c auth.Credentials) (auth.Outcome, error)

func (s *Store) authenticate(ctx context.Context, kind storefront.AuthKind, call authFunc) storefront.State {
	started := s.dispatch(ctx, storefront.AuthStarted{Kind: kind})
	creds := auth.Credentials{
		Username: started.Session.Username,
		Password: started.Session.Password,
	}
	lg := zctx.From(ctx).With(
		zap.Stringer("kind", kind),
		zap.String("username", creds.Username),
	)

	out, err := call(ctx, creds)
	if err != nil {
		lg.Warn("Authentication request failed", zap.Error(err))
		return s.dispatch(ctx, storefront.AuthFailed{Kind: kind})
	}

	lg.Info("Authentication answered", zap.Stringer("verdict", out.Verdict))
	if out.OK() {
		return s.dispatch(ctx, storefront.AuthAccepted{Kind: kind, Message: out.Message})
	}
	return s.dispatch(ctx, storefront.AuthRejected{Kind: kind, Message: out.Message})
}

// Logout ends the session and empties the cart. The remote service is not
// contacted.
func (s *Store) Logout(ctx context.Context) storefront.State {
	return s.dispatch(ctx, storefront.Logout{})
}

// AddToCart adds one unit of the catalog product with the given ID.
func (s *Store) AddToCart(ctx context.Context, productID string) (storefront.State, error) {
	p, ok := product.Find(s.State().Products, productID)
	if !ok {
		return storefront.State{}, errors.Wrapf(product.ErrNotFound, "product %q", productID)
	}
	return s.dispatch(ctx, storefront.AddToCart{Product: p}), nil
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) storefront.State {
	return s.dispatch(ctx, storefront.ClearCart{})
}

// PlaceOrder shows the confirmation notice, empties the cart and schedules
// the notice to disappear after the configured TTL. The order is local
// only.
func (s *Store) PlaceOrder(ctx context.Context) (storefront.State, *order.Order, error) {
	s.mu.Lock()
	o, err := s.orders.Place(s.state.Cart.OrderItems())
	if err != nil {
		s.mu.Unlock()
		return storefront.State{}, nil, err
	}
	s.state = s.policy.Reduce(s.state, storefront.OrderPlaced{})
	next := s.state
	s.mu.Unlock()

	s.actions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", storefront.OrderPlaced{}.Name())))
	s.orderN.Add(ctx, 1)
	s.notices.Schedule(next.Order.Version)

	zctx.From(ctx).Info("Order placed",
		zap.String("order_id", o.ID),
		zap.Int("lines", len(o.Items)),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return next, o, nil
}

func (s *Store) expireNotice(version uint64) {
	s.dispatch(context.Background(), storefront.OrderNoticeExpired{Version: version})
}
