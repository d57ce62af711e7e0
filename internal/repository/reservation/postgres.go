package reservation

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

const reservationColumns = `id::text, email, guest_name, phone, room_type, check_in, check_out,
	guests, total_cents, status, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, res domain.Reservation) (*domain.Reservation, error) {
	const q = `
INSERT INTO reservations (email, guest_name, phone, room_type, check_in, check_out, guests, total_cents, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + reservationColumns + `
`
	return r.scanOne(r.pool.QueryRow(ctx, q,
		res.Email, res.GuestName, res.Phone, res.RoomType, res.CheckIn, res.CheckOut,
		res.Guests, res.TotalCents, res.Status,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
}

func (r *postgresRepo) ListByEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+reservationColumns+`
FROM reservations
WHERE email = $1
ORDER BY check_in ASC
`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, res domain.Reservation) (*domain.Reservation, error) {
	const q = `
UPDATE reservations
SET guest_name = $1, phone = $2, room_type = $3, check_in = $4, check_out = $5,
    guests = $6, total_cents = $7, status = $8, updated_at = now()
WHERE id = $9
RETURNING ` + reservationColumns + `
`
	return r.scanOne(r.pool.QueryRow(ctx, q,
		res.GuestName, res.Phone, res.RoomType, res.CheckIn, res.CheckOut,
		res.Guests, res.TotalCents, res.Status, res.ID,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanOne(row pgx.Row) (*domain.Reservation, error) {
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(
		&res.ID, &res.Email, &res.GuestName, &res.Phone, &res.RoomType,
		&res.CheckIn, &res.CheckOut, &res.Guests, &res.TotalCents, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
