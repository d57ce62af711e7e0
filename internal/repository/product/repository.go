package product

import (
	"context"

	"heritage-boutique/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByKey(ctx context.Context, key string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
