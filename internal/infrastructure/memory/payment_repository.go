package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/repository"
)

// PaymentRepository is last-write-wins per id.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]entity.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[string]entity.Payment)}
}

func (r *PaymentRepository) Save(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id string) (*entity.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PaymentRepository) FindByUserID(_ context.Context, userID string) ([]*entity.Payment, error) {
	r.mu.RLock()
	out := make([]*entity.Payment, 0)
	for _, p := range r.payments {
		if p.UserID == userID {
			p := p
			out = append(out, &p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
