package anoncart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"heritage-boutique/internal/domain"
	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis stores anonymous carts as JSON documents expiring with the
// anonymous session's refresh horizon.
func NewRedis(client *redis.Client) Repository {
	return &redisRepo{client: client, ttl: 30 * 24 * time.Hour}
}

func key(anonymousID string) string {
	return fmt.Sprintf("anoncart:%s", anonymousID)
}

func (r *redisRepo) Load(ctx context.Context, anonymousID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, key(anonymousID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load anonymous cart: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode anonymous cart: %w", err)
	}
	cart.AnonymousID = &anonymousID
	return &cart, nil
}

func (r *redisRepo) Save(ctx context.Context, anonymousID string, cart domain.Cart) error {
	cart.AnonymousID = &anonymousID
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode anonymous cart: %w", err)
	}
	if err := r.client.Set(ctx, key(anonymousID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save anonymous cart: %w", err)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, anonymousID string) error {
	if err := r.client.Del(ctx, key(anonymousID)).Err(); err != nil {
		return fmt.Errorf("delete anonymous cart: %w", err)
	}
	return nil
}
