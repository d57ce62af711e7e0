package checkout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"heritage-boutique/internal/domain"
	orderrepo "heritage-boutique/internal/repository/order"
	cartsvc "heritage-boutique/internal/service/cart"
	"heritage-boutique/internal/validate"
)

// Request is a checkout submission. Card fields are only inspected when the
// payment method is "card"; the payment itself is simulated.
type Request struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
	CardNumber    string `json:"cardNumber"`
	CardExpiry    string `json:"cardExpiry"`
	CardCVV       string `json:"cardCvv"`
}

// ValidationError carries one message per rejected field so the storefront
// can annotate the form inline.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

var paymentMethods = map[string]bool{
	"card":     true,
	"transfer": true,
	"on_site":  true,
}

const deliveryLeadDays = 5

type cartService interface {
	Load(ctx context.Context, sess cartsvc.Session) (domain.Cart, error)
	Clear(ctx context.Context, sess cartsvc.Session) (domain.Cart, error)
}

type Service struct {
	orders orderrepo.Repository
	carts  cartService
	logger *zap.Logger
}

func New(orders orderrepo.Repository, carts cartService, logger *zap.Logger) *Service {
	return &Service{orders: orders, carts: carts, logger: logger}
}

// Checkout validates the submission against the session's cart, records the
// order, and clears the cart. Every rejection path happens before the order
// is written, so a failed checkout leaves the cart exactly as it was.
func (s *Service) Checkout(ctx context.Context, sess cartsvc.Session, req Request) (*domain.Order, error) {
	fields := validateRequest(req)

	cart, err := s.carts.Load(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		fields["cart"] = "cart is empty"
	} else if cart.TotalCents <= 0 {
		fields["totalAmount"] = "must be a positive amount"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:                uuid.NewString(),
		Number:            orderNumber(now),
		Email:             strings.TrimSpace(strings.ToLower(req.Email)),
		FirstName:         validate.Sanitize(req.FirstName),
		LastName:          validate.Sanitize(req.LastName),
		Phone:             strings.TrimSpace(req.Phone),
		Street:            validate.Sanitize(req.Street),
		City:              validate.Sanitize(req.City),
		PostalCode:        strings.TrimSpace(req.PostalCode),
		Country:           validate.Sanitize(req.Country),
		PaymentMethod:     req.PaymentMethod,
		Notes:             validate.Sanitize(req.Notes),
		TotalCents:        cart.TotalCents,
		Currency:          cart.Currency,
		EstimatedDelivery: now.AddDate(0, 0, deliveryLeadDays),
		CreatedAt:         now,
	}
	if sess.CustomerID != "" {
		order.CustomerID = &sess.CustomerID
	}
	for _, item := range cart.Items {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	// The order exists; a cart-clear failure must not fail the checkout.
	if _, err := s.carts.Clear(ctx, sess); err != nil {
		s.logger.Warn("order created but cart clear failed",
			zap.String("orderId", created.ID), zap.Error(err))
	}
	return created, nil
}

func validateRequest(req Request) map[string]string {
	fields := make(map[string]string)
	check := func(name string, kind validate.FieldKind, value string, required bool) {
		if r := validate.Field(kind, value, required); !r.Valid {
			fields[name] = r.Error
		}
	}

	check("email", validate.FieldEmail, req.Email, true)
	check("firstName", validate.FieldName, req.FirstName, true)
	check("lastName", validate.FieldName, req.LastName, true)
	check("phone", validate.FieldPhone, req.Phone, false)
	check("street", validate.FieldAddress, req.Street, true)
	check("city", validate.FieldCity, req.City, true)
	check("postalCode", validate.FieldPostalCode, req.PostalCode, true)
	check("country", validate.FieldCountry, req.Country, true)

	if !paymentMethods[req.PaymentMethod] {
		fields["paymentMethod"] = "unknown payment method"
	}
	if req.PaymentMethod == "card" {
		check("cardNumber", validate.FieldCreditCard, req.CardNumber, true)
		check("cardCvv", validate.FieldCVV, req.CardCVV, true)
		if !validExpiry(req.CardExpiry) {
			fields["cardExpiry"] = "invalid expiry, expected MM/YY"
		}
	}
	return fields
}

func validExpiry(value string) bool {
	t, err := time.Parse("01/06", strings.TrimSpace(value))
	if err != nil {
		return false
	}
	// Valid through the last day of the stated month.
	return !t.AddDate(0, 1, 0).Before(time.Now().UTC())
}

func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("HB-%s-%s", now.Format("20060102"), suffix)
}
