package cart

import (
	"context"

	"heritage-boutique/internal/domain"
)

// Repository is the authoritative store for customer-bound carts. Every
// mutation recomputes the cart total in the same transaction, so a cart read
// back from the store always satisfies total == sum(unit price * quantity).
type Repository interface {
	// GetOrCreateByCustomer returns the customer's single active cart,
	// creating it on first use. Calling it twice never yields two carts.
	GetOrCreateByCustomer(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	// AddItem merges by product: an existing row has its quantity increased.
	AddItem(ctx context.Context, cartID string, product domain.Product, quantity int) error
	// SetItemQuantity updates a row; a non-positive quantity deletes it.
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	Clear(ctx context.Context, cartID string) error
	SetState(ctx context.Context, cartID, state string) error
}
