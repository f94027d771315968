package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
)

type PaymentRepository interface {
	Save(ctx context.Context, p *entity.Payment) error
	FindByID(ctx context.Context, id string) (*entity.Payment, error)
	// FindByUserID returns payments newest first.
	FindByUserID(ctx context.Context, userID string) ([]*entity.Payment, error)
}
