package customer

import (
	"context"
	"errors"

	"heritage-boutique/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const customerColumns = `id::text, email, password_hash, first_name, last_name, phone, created_at`

func (r *postgresRepo) Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (email, password_hash, first_name, last_name, phone)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + customerColumns + `
`
	out, err := scanCustomer(r.pool.QueryRow(ctx, q,
		customer.Email, customer.PasswordHash, customer.FirstName, customer.LastName, customer.Phone,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.fetchOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.fetchOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, args ...interface{}) (*domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID,
		&c.Email,
		&c.PasswordHash,
		&c.FirstName,
		&c.LastName,
		&c.Phone,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
