package cart

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

const cartColumns = `id::text, customer_id::text, currency, total_cents, state, created_at, updated_at`

func (r *postgresRepo) GetOrCreateByCustomer(ctx context.Context, customerID, currency string) (*domain.Cart, error) {
	// The partial unique index on (customer_id) WHERE state = 'active' makes
	// the insert race-safe: concurrent calls converge on one cart.
	const insert = `
INSERT INTO carts (customer_id, currency, total_cents, state)
VALUES ($1, $2, 0, 'active')
ON CONFLICT (customer_id) WHERE state = 'active' DO NOTHING
`
	if _, err := r.pool.Exec(ctx, insert, customerID, currency); err != nil {
		return nil, err
	}

	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE customer_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, customerID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID string, product domain.Product, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existingQty int
	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT quantity, unit_price_cents
FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`, cartID, product.ID).Scan(&existingQty, &unitPrice)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		newQty := existingQty + quantity
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, total_cents = $2
WHERE cart_id = $3 AND product_id = $4
`, newQty, unitPrice*int64(newQty), cartID, product.ID); err != nil {
			return err
		}
	} else {
		unitPrice = product.PriceCents
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, product_key, product_name, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, cartID, product.ID, product.Key, product.Name, quantity, unitPrice, unitPrice*int64(quantity)); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if quantity <= 0 {
		cmd, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	} else {
		var unitPrice int64
		err := tx.QueryRow(ctx, `
SELECT unit_price_cents
FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID).Scan(&unitPrice)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, total_cents = $2
WHERE cart_id = $3 AND product_id = $4
`, quantity, unitPrice*int64(quantity), cartID, productID); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) SetState(ctx context.Context, cartID, state string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE carts
SET state = $1, updated_at = now()
WHERE id = $2
`, state, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID *string
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&customerID,
		&cart.Currency,
		&cart.TotalCents,
		&cart.State,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.CustomerID = customerID

	const itemsQuery = `
SELECT product_id::text, product_key, product_name, quantity, unit_price_cents, total_cents, added_at
FROM cart_items
WHERE cart_id = $1
ORDER BY added_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ProductID,
			&item.ProductKey,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalCents,
			&item.AddedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func updateCartTotal(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_items
	WHERE cart_id = $1
), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
