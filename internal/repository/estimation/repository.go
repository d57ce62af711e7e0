package estimation

import (
	"context"

	"heritage-boutique/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, est domain.Estimation) (*domain.Estimation, error)
}
