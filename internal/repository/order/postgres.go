package order

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

const orderColumns = `id::text, number, customer_id::text, email, first_name, last_name, phone,
	street, city, postal_code, country, payment_method, notes, total_cents, currency,
	estimated_delivery, created_at`

func (r *postgresRepo) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (number, customer_id, email, first_name, last_name, phone,
	street, city, postal_code, country, payment_method, notes, total_cents, currency, estimated_delivery)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + orderColumns + `
`
	out, err := scanOrder(tx.QueryRow(ctx, insertOrder,
		order.Number, order.CustomerID, order.Email, order.FirstName, order.LastName, order.Phone,
		order.Street, order.City, order.PostalCode, order.Country, order.PaymentMethod, order.Notes,
		order.TotalCents, order.Currency, order.EstimatedDelivery,
	))
	if err != nil {
		return nil, err
	}

	for _, line := range order.Lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6)
`, out.ID, line.ProductID, line.ProductName, line.Quantity, line.UnitPriceCents, line.TotalCents); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	out.Lines = order.Lines
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	out, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, product_name, quantity, unit_price_cents, total_cents
FROM order_lines
WHERE order_id = $1
ORDER BY id ASC
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.ProductName,
			&line.Quantity, &line.UnitPriceCents, &line.TotalCents,
		); err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, line)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var customerID *string
	if err := row.Scan(
		&o.ID, &o.Number, &customerID, &o.Email, &o.FirstName, &o.LastName, &o.Phone,
		&o.Street, &o.City, &o.PostalCode, &o.Country, &o.PaymentMethod, &o.Notes,
		&o.TotalCents, &o.Currency, &o.EstimatedDelivery, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	o.CustomerID = customerID
	return &o, nil
}
