package product

import (
	"context"
	"errors"

	"heritage-boutique/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const productColumns = `id::text, key, sku, name, description, price_cents, currency, attributes, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.fetchOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *postgresRepo) GetByKey(ctx context.Context, key string) (*domain.Product, error) {
	return r.fetchOne(ctx, `SELECT `+productColumns+` FROM products WHERE key = $1`, key)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.fetchOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+productColumns+`
FROM products
ORDER BY created_at ASC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (key, sku, name, description, price_cents, currency, attributes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (key) DO UPDATE SET
	sku = EXCLUDED.sku,
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	price_cents = EXCLUDED.price_cents,
	currency = EXCLUDED.currency,
	attributes = EXCLUDED.attributes
RETURNING ` + productColumns + `
`
	row := r.pool.QueryRow(ctx, q,
		product.Key, product.SKU, product.Name, product.Description,
		product.PriceCents, product.Currency, product.Attributes,
	)
	return scanProduct(row)
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, args ...interface{}) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.Key,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.Currency,
		&p.Attributes,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
