package anoncart

import (
	"context"

	"heritage-boutique/internal/domain"
)

// Repository stores anonymous carts keyed by anonymous session ID. It plays
// the role device-local storage plays in a browser: cheap, per-session, and
// discarded once the session binds to a customer.
type Repository interface {
	Load(ctx context.Context, anonymousID string) (*domain.Cart, error)
	Save(ctx context.Context, anonymousID string, cart domain.Cart) error
	Delete(ctx context.Context, anonymousID string) error
}
