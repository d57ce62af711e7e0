package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Key         string
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
}

// Apply inserts the boutique's starter catalog. It is idempotent via
// ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Key:         "silk-scarf",
			SKU:         "HB-SCARF-01",
			Name:        "Silk Scarf",
			Description: "Hand-rolled twill scarf printed with the palace gardens",
			PriceCents:  4500,
			Currency:    "EUR",
		},
		{
			Key:         "porcelain-tea-set",
			SKU:         "HB-TEA-01",
			Name:        "Porcelain Tea Set",
			Description: "Six-piece set reproducing the royal table service",
			PriceCents:  12000,
			Currency:    "EUR",
		},
		{
			Key:         "tapestry-print",
			SKU:         "HB-PRINT-01",
			Name:        "Tapestry Print",
			Description: "Giclée print of the grand hall tapestry, numbered edition",
			PriceCents:  8900,
			Currency:    "EUR",
		},
		{
			Key:         "garden-guidebook",
			SKU:         "HB-BOOK-01",
			Name:        "Garden Guidebook",
			Description: "Illustrated guide to the palace gardens and orangery",
			PriceCents:  2400,
			Currency:    "EUR",
		},
		{
			Key:         "beeswax-candle",
			SKU:         "HB-CANDLE-01",
			Name:        "Beeswax Candle",
			Description: "Candle poured from the estate's own apiary wax",
			PriceCents:  1800,
			Currency:    "EUR",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (key, sku, name, description, price_cents, currency, attributes)
VALUES ($1, $2, $3, $4, $5, $6, '{}'::jsonb)
ON CONFLICT (key) DO UPDATE
SET sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency
`
	_, err := pool.Exec(ctx, q, p.Key, p.SKU, p.Name, p.Description, p.PriceCents, p.Currency)
	return err
}
