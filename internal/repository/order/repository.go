package order

import (
	"context"

	"heritage-boutique/internal/domain"
)

type Repository interface {
	// Create persists the order and its lines in one transaction.
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}
