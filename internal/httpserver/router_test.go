package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"heritage-boutique/internal/antispam"
	"heritage-boutique/internal/domain"
	cartsvc "heritage-boutique/internal/service/cart"
	checkoutsvc "heritage-boutique/internal/service/checkout"
	customersvc "heritage-boutique/internal/service/customer"
	estimationsvc "heritage-boutique/internal/service/estimation"
	reservationsvc "heritage-boutique/internal/service/reservation"
)

type stubAnonymousSvc struct {
	anonymousID string
	lookupErr   error
}

func (s *stubAnonymousSvc) Issue(_ context.Context) (string, string, string, error) {
	return "anon-access", "anon-refresh", s.anonymousID, nil
}

func (s *stubAnonymousSvc) LookupByToken(_ context.Context, token string) (string, error) {
	if s.lookupErr != nil || token != "anon-token" {
		return "", customersvc.ErrInvalidToken
	}
	return s.anonymousID, nil
}

func (s *stubAnonymousSvc) AccessTTLSeconds() int { return 3600 }

type stubCustomerSvc struct {
	customer  *domain.Customer
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubCustomerSvc) Signup(_ context.Context, _ customersvc.SignupInput) (*domain.Customer, error) {
	return s.customer, s.signupErr
}

func (s *stubCustomerSvc) Login(_ context.Context, _, _ string) (*domain.Customer, string, string, error) {
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	return s.customer, "access", "refresh", nil
}

func (s *stubCustomerSvc) LookupByToken(_ context.Context, token string) (*domain.Customer, error) {
	if s.lookupErr != nil || token != "customer-token" {
		return nil, customersvc.ErrInvalidToken
	}
	return s.customer, nil
}

func (s *stubCustomerSvc) AccessTTLSeconds() int { return 3600 }

type stubCartSvc struct {
	cart      domain.Cart
	syncCalls int
	err       error
}

func (s *stubCartSvc) Load(_ context.Context, _ cartsvc.Session) (domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) AddItem(_ context.Context, _ cartsvc.Session, _ string, _ int) (domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) UpdateQuantity(_ context.Context, _ cartsvc.Session, _ string, _ int) (domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) RemoveItem(_ context.Context, _ cartsvc.Session, _ string) (domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) Clear(_ context.Context, _ cartsvc.Session) (domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) SyncOnLogin(_ context.Context, _, _ string) (domain.Cart, error) {
	s.syncCalls++
	return s.cart, s.err
}

type stubCheckoutSvc struct {
	order *domain.Order
	err   error
}

func (s *stubCheckoutSvc) Checkout(_ context.Context, _ cartsvc.Session, _ checkoutsvc.Request) (*domain.Order, error) {
	return s.order, s.err
}

type stubEstimationSvc struct {
	est *domain.Estimation
	err error
}

func (s *stubEstimationSvc) Create(_ context.Context, _ estimationsvc.Request) (*domain.Estimation, error) {
	return s.est, s.err
}

type stubReservationSvc struct {
	res *domain.Reservation
	err error
}

func (s *stubReservationSvc) Create(_ context.Context, _ reservationsvc.Request) (*domain.Reservation, error) {
	return s.res, s.err
}

func (s *stubReservationSvc) Get(_ context.Context, _, _ string) (*domain.Reservation, error) {
	if s.res == nil {
		return nil, domain.ErrNotFound
	}
	return s.res, s.err
}

func (s *stubReservationSvc) ListByEmail(_ context.Context, _ string) ([]domain.Reservation, error) {
	if s.res == nil {
		return nil, s.err
	}
	return []domain.Reservation{*s.res}, s.err
}

func (s *stubReservationSvc) Update(_ context.Context, _ string, _ reservationsvc.Request) (*domain.Reservation, error) {
	return s.res, s.err
}

func (s *stubReservationSvc) Cancel(_ context.Context, _, _ string) (*domain.Reservation, error) {
	return s.res, s.err
}

type stubProductReader struct {
	products map[string]domain.Product
}

func (s *stubProductReader) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *stubProductReader) GetByKey(_ context.Context, key string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.Key == key {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductReader) List(_ context.Context, _, _ int) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

type stubLimiter struct {
	allowed   bool
	remaining time.Duration
}

func (s *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return s.allowed, nil
}

func (s *stubLimiter) RemainingTime(_ context.Context, _ string) (time.Duration, error) {
	return s.remaining, nil
}

type stubGate struct {
	verdict antispam.Verdict
}

func (s *stubGate) CanAttempt(_ string) antispam.Verdict { return s.verdict }

func testDeps() Deps {
	return Deps{
		AnonymousSvc:   &stubAnonymousSvc{anonymousID: "anon-1"},
		CustomerSvc:    &stubCustomerSvc{customer: &domain.Customer{ID: "cust-1", Email: "user@example.com"}},
		CartSvc:        &stubCartSvc{cart: domain.Cart{ID: "cart-1", Currency: "EUR", State: domain.CartStateActive}},
		CheckoutSvc:    &stubCheckoutSvc{order: &domain.Order{ID: "ord-1", Number: "HB-1", TotalCents: 9000, Currency: "EUR"}},
		EstimationSvc:  &stubEstimationSvc{est: &domain.Estimation{ID: "est-1"}},
		ReservationSvc: &stubReservationSvc{res: &domain.Reservation{ID: "res-1", Email: "user@example.com"}},
		Products:       &stubProductReader{products: map[string]domain.Product{"p1": {ID: "p1", Key: "silk-scarf"}}},
		Limiter:        &stubLimiter{allowed: true},
		Gate:           &stubGate{verdict: antispam.Verdict{Allowed: true}},
		AllowedOrigins: []string{"*"},
	}
}

func testRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return buildRouter(zap.NewNop(), nil, deps)
}

func doJSON(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAnonymousToken(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodPost, "/anonymous/token", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"anonymousId":"anon-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSignupCreated(t *testing.T) {
	body := `{"email":"user@example.com","password":"Abcdefg1!"}`
	rec := doJSON(testRouter(testDeps()), http.MethodPost, "/me/signup", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"user@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	deps := testDeps()
	deps.CustomerSvc = &stubCustomerSvc{loginErr: customersvc.ErrInvalidCredentials}
	body := `{"email":"user@example.com","password":"wrong"}`
	rec := doJSON(testRouter(deps), http.MethodPost, "/me/login", body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginSyncsAnonymousCart(t *testing.T) {
	deps := testDeps()
	carts := deps.CartSvc.(*stubCartSvc)
	body := `{"email":"user@example.com","password":"Abcdefg1!"}`
	rec := doJSON(testRouter(deps), http.MethodPost, "/me/login", body,
		map[string]string{"X-Anonymous-Token": "anon-token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.syncCalls != 1 {
		t.Fatalf("sync called %d times, want 1", carts.syncCalls)
	}
}

func TestLoginWithoutAnonymousTokenSkipsSync(t *testing.T) {
	deps := testDeps()
	carts := deps.CartSvc.(*stubCartSvc)
	body := `{"email":"user@example.com","password":"Abcdefg1!"}`
	rec := doJSON(testRouter(deps), http.MethodPost, "/me/login", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if carts.syncCalls != 0 {
		t.Fatalf("sync called %d times, want 0", carts.syncCalls)
	}
}

func TestMeUnauthorizedWithoutToken(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodGet, "/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMeSuccess(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodGet, "/me", "",
		map[string]string{"Authorization": "Bearer customer-token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCartRequiresSession(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodGet, "/me/cart", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCartWithAnonymousToken(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodGet, "/me/cart", "",
		map[string]string{"Authorization": "Bearer anon-token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"cart-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAddCartItemRejectsZeroQuantity(t *testing.T) {
	body := `{"productId":"p1","quantity":0}`
	rec := doJSON(testRouter(testDeps()), http.MethodPost, "/me/cart/items", body,
		map[string]string{"Authorization": "Bearer anon-token"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCartSyncRequiresCustomerSession(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodPost, "/me/cart/sync", "",
		map[string]string{
			"Authorization":     "Bearer anon-token",
			"X-Anonymous-Token": "anon-token",
		})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCartSync(t *testing.T) {
	deps := testDeps()
	carts := deps.CartSvc.(*stubCartSvc)
	rec := doJSON(testRouter(deps), http.MethodPost, "/me/cart/sync", "",
		map[string]string{
			"Authorization":     "Bearer customer-token",
			"X-Anonymous-Token": "anon-token",
		})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.syncCalls != 1 {
		t.Fatalf("sync called %d times, want 1", carts.syncCalls)
	}
}

func TestGetProductByKey(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodGet, "/products/silk-scarf", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetProductNotFound(t *testing.T) {
	rec := doJSON(testRouter(testDeps()), http.MethodGet, "/products/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
