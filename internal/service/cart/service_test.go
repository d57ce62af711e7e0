package cart

import (
	"context"
	"errors"
	"testing"

	"heritage-boutique/internal/cartstate"
	"heritage-boutique/internal/domain"
	"go.uber.org/zap"
)

type stubRemote struct {
	carts   map[string]*domain.Cart // customerID -> cart
	failAll bool
}

func newStubRemote() *stubRemote {
	return &stubRemote{carts: make(map[string]*domain.Cart)}
}

func (s *stubRemote) GetOrCreateByCustomer(_ context.Context, customerID, currency string) (*domain.Cart, error) {
	if s.failAll {
		return nil, errors.New("remote unavailable")
	}
	if cart, ok := s.carts[customerID]; ok {
		copied := *cart
		return &copied, nil
	}
	cart := &domain.Cart{
		ID:         "cart-" + customerID,
		CustomerID: &customerID,
		Currency:   currency,
		State:      domain.CartStateActive,
	}
	s.carts[customerID] = cart
	copied := *cart
	return &copied, nil
}

func (s *stubRemote) find(cartID string) *domain.Cart {
	for _, cart := range s.carts {
		if cart.ID == cartID {
			return cart
		}
	}
	return nil
}

func (s *stubRemote) AddItem(_ context.Context, cartID string, product domain.Product, quantity int) error {
	if s.failAll {
		return errors.New("remote unavailable")
	}
	cart := s.find(cartID)
	if cart == nil {
		return domain.ErrNotFound
	}
	*cart = cartstate.Apply(*cart, cartstate.Action{
		Type: cartstate.AddItem,
		Item: domain.CartItem{
			ProductID:      product.ID,
			ProductKey:     product.Key,
			ProductName:    product.Name,
			Quantity:       quantity,
			UnitPriceCents: product.PriceCents,
		},
	})
	return nil
}

func (s *stubRemote) SetItemQuantity(_ context.Context, cartID, productID string, quantity int) error {
	cart := s.find(cartID)
	if cart == nil {
		return domain.ErrNotFound
	}
	if quantity <= 0 && cart.Item(productID) == nil {
		return domain.ErrNotFound
	}
	*cart = cartstate.Apply(*cart, cartstate.Action{
		Type:      cartstate.UpdateQuantity,
		ProductID: productID,
		Quantity:  quantity,
	})
	return nil
}

func (s *stubRemote) Clear(_ context.Context, cartID string) error {
	cart := s.find(cartID)
	if cart == nil {
		return domain.ErrNotFound
	}
	*cart = cartstate.Apply(*cart, cartstate.Action{Type: cartstate.ClearCart})
	return nil
}

type stubLocal struct {
	carts map[string]domain.Cart
}

func newStubLocal() *stubLocal {
	return &stubLocal{carts: make(map[string]domain.Cart)}
}

func (s *stubLocal) Load(_ context.Context, anonymousID string) (*domain.Cart, error) {
	cart, ok := s.carts[anonymousID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cart, nil
}

func (s *stubLocal) Save(_ context.Context, anonymousID string, cart domain.Cart) error {
	s.carts[anonymousID] = cart
	return nil
}

func (s *stubLocal) Delete(_ context.Context, anonymousID string) error {
	delete(s.carts, anonymousID)
	return nil
}

type stubProducts struct {
	products map[string]domain.Product
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &product, nil
}

func testProducts() *stubProducts {
	return &stubProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Key: "silk-scarf", Name: "Silk Scarf", PriceCents: 4500},
		"p2": {ID: "p2", Key: "tea-set", Name: "Porcelain Tea Set", PriceCents: 12000},
	}}
}

func testService(remote *stubRemote, local *stubLocal) *Service {
	return &Service{
		remote:   remote,
		local:    local,
		products: testProducts(),
		currency: "EUR",
		logger:   zap.NewNop(),
		cache:    make(map[string]domain.Cart),
		migrated: make(map[string]struct{}),
	}
}

func TestLoadAuthenticatedCreatesCart(t *testing.T) {
	svc := testService(newStubRemote(), newStubLocal())

	cart, err := svc.Load(context.Background(), Session{CustomerID: "c1"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cart.ID == "" {
		t.Fatal("expected a created cart with an ID")
	}
	if cart.CustomerID == nil || *cart.CustomerID != "c1" {
		t.Fatalf("cart bound to wrong customer: %+v", cart.CustomerID)
	}
}

func TestLoadDegradesToEmptyCartOnRemoteFailure(t *testing.T) {
	remote := newStubRemote()
	remote.failAll = true
	svc := testService(remote, newStubLocal())

	cart, err := svc.Load(context.Background(), Session{CustomerID: "c1"})
	if err != nil {
		t.Fatalf("expected degraded load, got error: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestAnonymousAddItemPersistsAndMerges(t *testing.T) {
	local := newStubLocal()
	svc := testService(newStubRemote(), local)
	sess := Session{AnonymousID: "anon-1"}
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, sess, "p1", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	cart, err := svc.AddItem(ctx, sess, "p1", 3)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Fatalf("expected one merged row with quantity 5, got %+v", cart.Items)
	}
	if cart.TotalCents != 5*4500 {
		t.Fatalf("total = %d, want %d", cart.TotalCents, 5*4500)
	}

	stored, ok := local.carts["anon-1"]
	if !ok {
		t.Fatal("anonymous cart not persisted")
	}
	if stored.TotalCents != cart.TotalCents {
		t.Fatalf("persisted total %d differs from returned %d", stored.TotalCents, cart.TotalCents)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc := testService(newStubRemote(), newStubLocal())

	_, err := svc.AddItem(context.Background(), Session{AnonymousID: "anon-1"}, "nope", 1)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestRemoveAbsentRowIsNoOp(t *testing.T) {
	svc := testService(newStubRemote(), newStubLocal())
	ctx := context.Background()
	sess := Session{CustomerID: "c1"}

	if _, err := svc.Load(ctx, sess); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cart, err := svc.RemoveItem(ctx, sess, "never-added")
	if err != nil {
		t.Fatalf("removing an absent row should not fail: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
}

func TestSyncOnLoginMigratesAnonymousItems(t *testing.T) {
	remote := newStubRemote()
	local := newStubLocal()
	svc := testService(remote, local)
	ctx := context.Background()
	anon := Session{AnonymousID: "anon-1"}

	if _, err := svc.AddItem(ctx, anon, "p1", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, anon, "p2", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	cart, err := svc.SyncOnLogin(ctx, "anon-1", "c1")
	if err != nil {
		t.Fatalf("SyncOnLogin: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 migrated items, got %d", len(cart.Items))
	}
	if cart.TotalCents != 2*4500+12000 {
		t.Fatalf("total = %d, want %d", cart.TotalCents, 2*4500+12000)
	}
	if _, ok := local.carts["anon-1"]; ok {
		t.Fatal("anonymous cart should be deleted after sync")
	}
}

func TestSyncOnLoginLocalWinsOverRemote(t *testing.T) {
	remote := newStubRemote()
	local := newStubLocal()
	svc := testService(remote, local)
	ctx := context.Background()

	// Customer already has a remote cart with different contents.
	if _, err := svc.AddItem(ctx, Session{CustomerID: "c1"}, "p2", 4); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, Session{AnonymousID: "anon-1"}, "p1", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	cart, err := svc.SyncOnLogin(ctx, "anon-1", "c1")
	if err != nil {
		t.Fatalf("SyncOnLogin: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p1" {
		t.Fatalf("expected remote cart replaced by local contents, got %+v", cart.Items)
	}
}

func TestSyncOnLoginWithoutLocalCartAdoptsRemote(t *testing.T) {
	remote := newStubRemote()
	svc := testService(remote, newStubLocal())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, Session{CustomerID: "c1"}, "p2", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	cart, err := svc.SyncOnLogin(ctx, "never-used", "c1")
	if err != nil {
		t.Fatalf("SyncOnLogin: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" {
		t.Fatalf("expected untouched remote cart, got %+v", cart.Items)
	}
}

func TestSyncOnLoginIsIdempotent(t *testing.T) {
	svc := testService(newStubRemote(), newStubLocal())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, Session{AnonymousID: "anon-1"}, "p1", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	first, err := svc.SyncOnLogin(ctx, "anon-1", "c1")
	if err != nil {
		t.Fatalf("SyncOnLogin: %v", err)
	}
	second, err := svc.SyncOnLogin(ctx, "anon-1", "c1")
	if err != nil {
		t.Fatalf("repeated SyncOnLogin: %v", err)
	}
	if second.TotalCents != first.TotalCents || len(second.Items) != len(first.Items) {
		t.Fatalf("repeated sync changed the cart: first %+v, second %+v", first, second)
	}
}

func TestOrphanedResultAfterMigrationIsDropped(t *testing.T) {
	svc := testService(newStubRemote(), newStubLocal())
	ctx := context.Background()
	anon := Session{AnonymousID: "anon-1"}

	stale, err := svc.AddItem(ctx, anon, "p1", 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.SyncOnLogin(ctx, "anon-1", "c1"); err != nil {
		t.Fatalf("SyncOnLogin: %v", err)
	}

	// A result from before the migration arrives late; the snapshot for the
	// retired session must stay gone.
	svc.refresh(anon, stale)
	if _, ok := svc.Cached(anon); ok {
		t.Fatal("stale anonymous snapshot resurrected after migration")
	}
}

func TestClearAnonymousCart(t *testing.T) {
	svc := testService(newStubRemote(), newStubLocal())
	ctx := context.Background()
	sess := Session{AnonymousID: "anon-1"}

	if _, err := svc.AddItem(ctx, sess, "p1", 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	cart, err := svc.Clear(ctx, sess)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalCents != 0 {
		t.Fatalf("expected cleared cart, got %+v", cart)
	}
}
