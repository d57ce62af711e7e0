package reservation

import (
	"context"

	"heritage-boutique/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, res domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Reservation, error)
	Update(ctx context.Context, res domain.Reservation) (*domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}
