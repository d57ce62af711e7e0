package estimation

import (
	"context"

	"heritage-boutique/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, est domain.Estimation) (*domain.Estimation, error) {
	const q = `
INSERT INTO estimations (email, first_name, last_name, phone, visit_date, visit_time, group_size, visit_kind, message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text, email, first_name, last_name, phone, visit_date, visit_time, group_size, visit_kind, message, created_at
`
	var out domain.Estimation
	if err := r.pool.QueryRow(ctx, q,
		est.Email, est.FirstName, est.LastName, est.Phone,
		est.VisitDate, est.VisitTime, est.GroupSize, est.VisitKind, est.Message,
	).Scan(
		&out.ID, &out.Email, &out.FirstName, &out.LastName, &out.Phone,
		&out.VisitDate, &out.VisitTime, &out.GroupSize, &out.VisitKind, &out.Message,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
