package cart

import (
	"context"
	"errors"
	"sync"

	"heritage-boutique/internal/cartstate"
	"heritage-boutique/internal/domain"
	anoncartrepo "heritage-boutique/internal/repository/anoncart"
	cartrepo "heritage-boutique/internal/repository/cart"
	"go.uber.org/zap"
)

// Session identifies the cart owner: exactly one of CustomerID or
// AnonymousID is set. A session is either anonymous or bound, never both.
type Session struct {
	CustomerID  string
	AnonymousID string
}

func (s Session) authenticated() bool {
	return s.CustomerID != ""
}

func (s Session) cacheKey() string {
	if s.authenticated() {
		return "customer:" + s.CustomerID
	}
	return "anon:" + s.AnonymousID
}

// Service reconciles cart state across two backing stores: a redis-backed
// per-session store for anonymous visitors and the relational store for
// authenticated customers. The in-memory snapshot per session is a
// read-through cache of the authoritative store: every mutation goes to the
// store first and the snapshot is refreshed from the authoritative result,
// never merged optimistically.
type Service struct {
	remote   remoteRepo
	local    localRepo
	products productRepo
	currency string
	logger   *zap.Logger

	mu       sync.RWMutex
	cache    map[string]domain.Cart
	migrated map[string]struct{}
}

type remoteRepo interface {
	GetOrCreateByCustomer(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, product domain.Product, quantity int) error
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	Clear(ctx context.Context, cartID string) error
}

type localRepo interface {
	Load(ctx context.Context, anonymousID string) (*domain.Cart, error)
	Save(ctx context.Context, anonymousID string, cart domain.Cart) error
	Delete(ctx context.Context, anonymousID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

var ErrProductNotFound = errors.New("product not found")

func New(remote cartrepo.Repository, local anoncartrepo.Repository, products productRepo, currency string, logger *zap.Logger) *Service {
	return &Service{
		remote:   remote,
		local:    local,
		products: products,
		currency: currency,
		logger:   logger,
		cache:    make(map[string]domain.Cart),
		migrated: make(map[string]struct{}),
	}
}

// Load returns the session's cart from its authoritative store. A remote
// failure for an authenticated session degrades to an empty cart: the error
// is logged and swallowed so a storefront page never hard-fails on cart
// display.
func (s *Service) Load(ctx context.Context, sess Session) (domain.Cart, error) {
	if sess.authenticated() {
		cart, err := s.remote.GetOrCreateByCustomer(ctx, sess.CustomerID, s.currency)
		if err != nil {
			s.logger.Warn("remote cart load failed, serving empty cart",
				zap.String("customerId", sess.CustomerID), zap.Error(err))
			return s.emptyCart(sess), nil
		}
		s.refresh(sess, *cart)
		return *cart, nil
	}

	cart, err := s.local.Load(ctx, sess.AnonymousID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("anonymous cart load failed, serving empty cart",
				zap.Error(err))
		}
		return s.emptyCart(sess), nil
	}
	s.refresh(sess, *cart)
	return *cart, nil
}

// Cached returns the last authoritative snapshot for the session without
// touching storage. It may be stale while a mutation is in flight.
func (s *Service) Cached(sess Session) (domain.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.cache[sess.cacheKey()]
	return cart, ok
}

// AddItem prices the product from the catalog, applies the addition to the
// authoritative store, and returns the refreshed cart. Adding a product
// already in the cart increases its quantity.
func (s *Service) AddItem(ctx context.Context, sess Session, productID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, errors.New("quantity must be positive")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Cart{}, ErrProductNotFound
		}
		return domain.Cart{}, err
	}

	if sess.authenticated() {
		cart, err := s.remote.GetOrCreateByCustomer(ctx, sess.CustomerID, s.currency)
		if err != nil {
			return domain.Cart{}, err
		}
		if err := s.remote.AddItem(ctx, cart.ID, *product, quantity); err != nil {
			return domain.Cart{}, err
		}
		return s.reloadRemote(ctx, sess)
	}

	return s.applyLocal(ctx, sess, cartstate.Action{
		Type: cartstate.AddItem,
		Item: domain.CartItem{
			ProductID:      product.ID,
			ProductKey:     product.Key,
			ProductName:    product.Name,
			Quantity:       quantity,
			UnitPriceCents: product.PriceCents,
		},
	})
}

// UpdateQuantity sets an item's quantity; zero or less removes the row.
// Removing a row that does not exist is a no-op, matching the reducer.
func (s *Service) UpdateQuantity(ctx context.Context, sess Session, productID string, quantity int) (domain.Cart, error) {
	if sess.authenticated() {
		cart, err := s.remote.GetOrCreateByCustomer(ctx, sess.CustomerID, s.currency)
		if err != nil {
			return domain.Cart{}, err
		}
		err = s.remote.SetItemQuantity(ctx, cart.ID, productID, quantity)
		if err != nil && !(quantity <= 0 && errors.Is(err, domain.ErrNotFound)) {
			return domain.Cart{}, err
		}
		return s.reloadRemote(ctx, sess)
	}

	return s.applyLocal(ctx, sess, cartstate.Action{
		Type:      cartstate.UpdateQuantity,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// RemoveItem deletes the product's row from the cart.
func (s *Service) RemoveItem(ctx context.Context, sess Session, productID string) (domain.Cart, error) {
	return s.UpdateQuantity(ctx, sess, productID, 0)
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sess Session) (domain.Cart, error) {
	if sess.authenticated() {
		cart, err := s.remote.GetOrCreateByCustomer(ctx, sess.CustomerID, s.currency)
		if err != nil {
			return domain.Cart{}, err
		}
		if err := s.remote.Clear(ctx, cart.ID); err != nil {
			return domain.Cart{}, err
		}
		return s.reloadRemote(ctx, sess)
	}

	return s.applyLocal(ctx, sess, cartstate.Action{Type: cartstate.ClearCart})
}

// SyncOnLogin migrates an anonymous session's cart into the customer's
// remote cart: obtain-or-create the remote cart, clear whatever it held,
// push every local item, then discard the local copy. The merge is one-way
// and one-time; this session's cart wins over any pre-existing remote
// contents. The sequence is idempotent, so a caller that failed midway can
// simply run it again: the clear-then-push order guarantees a retry
// converges on the same final state.
func (s *Service) SyncOnLogin(ctx context.Context, anonymousID, customerID string) (domain.Cart, error) {
	authSess := Session{CustomerID: customerID}

	local, err := s.local.Load(ctx, anonymousID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Nothing to migrate; the session simply adopts the remote cart.
			s.markMigrated(anonymousID)
			return s.Load(ctx, authSess)
		}
		return domain.Cart{}, err
	}

	remote, err := s.remote.GetOrCreateByCustomer(ctx, customerID, s.currency)
	if err != nil {
		return domain.Cart{}, err
	}

	if len(local.Items) > 0 {
		if err := s.remote.Clear(ctx, remote.ID); err != nil {
			return domain.Cart{}, err
		}
		for _, item := range local.Items {
			product, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Catalog entry vanished since the item was added; skip it
					// rather than fail the whole migration.
					s.logger.Warn("skipping vanished product during cart sync",
						zap.String("productId", item.ProductID))
					continue
				}
				return domain.Cart{}, err
			}
			if err := s.remote.AddItem(ctx, remote.ID, *product, item.Quantity); err != nil {
				return domain.Cart{}, err
			}
		}
	}

	if err := s.local.Delete(ctx, anonymousID); err != nil {
		return domain.Cart{}, err
	}
	s.markMigrated(anonymousID)

	return s.reloadRemote(ctx, authSess)
}

func (s *Service) emptyCart(sess Session) domain.Cart {
	cart := domain.Cart{Currency: s.currency, State: domain.CartStateActive}
	if sess.authenticated() {
		cart.CustomerID = &sess.CustomerID
	} else {
		cart.AnonymousID = &sess.AnonymousID
	}
	return cart
}

// applyLocal runs the reducer against the anonymous store's current state
// and persists the result before refreshing the snapshot.
func (s *Service) applyLocal(ctx context.Context, sess Session, action cartstate.Action) (domain.Cart, error) {
	current, err := s.local.Load(ctx, sess.AnonymousID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Cart{}, err
		}
		empty := s.emptyCart(sess)
		current = &empty
	}

	next := cartstate.Apply(*current, action)
	if err := s.local.Save(ctx, sess.AnonymousID, next); err != nil {
		return domain.Cart{}, err
	}
	s.refresh(sess, next)
	return next, nil
}

func (s *Service) reloadRemote(ctx context.Context, sess Session) (domain.Cart, error) {
	cart, err := s.remote.GetOrCreateByCustomer(ctx, sess.CustomerID, s.currency)
	if err != nil {
		return domain.Cart{}, err
	}
	s.refresh(sess, *cart)
	return *cart, nil
}

// refresh updates the read-through snapshot. A result arriving for an
// anonymous session that has since been migrated is dropped: the session
// moved on, so the orphaned result must not resurrect stale state.
func (s *Service) refresh(sess Session, cart domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sess.authenticated() {
		if _, gone := s.migrated[sess.AnonymousID]; gone {
			return
		}
	}
	s.cache[sess.cacheKey()] = cart
}

func (s *Service) markMigrated(anonymousID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrated[anonymousID] = struct{}{}
	delete(s.cache, "anon:"+anonymousID)
}
