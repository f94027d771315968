package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/repository"
)

const paymentColumns = `id::text, user_id::text, amount::float8, currency, status, description, created_at, updated_at`

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Save writes the whole payment.
func (r *PaymentRepository) Save(ctx context.Context, p *entity.Payment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payments (id, user_id, amount, currency, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    amount = EXCLUDED.amount,
		    currency = EXCLUDED.currency,
		    status = EXCLUDED.status,
		    description = EXCLUDED.description,
		    updated_at = EXCLUDED.updated_at
	`, p.ID, p.UserID, p.Amount, p.Currency, string(p.Status), p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return p, err
}

func (r *PaymentRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Payment, error) {
	if !validID(userID) {
		return []*entity.Payment{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("find payments by user: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	p := &entity.Payment{}
	var status string
	if err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.Currency, &status, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = entity.PaymentStatus(status)
	return p, nil
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)
