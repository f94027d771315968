package event

import (
	"time"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
)

type PaymentEventType string

const (
	PaymentCreated   PaymentEventType = "payment.created"
	PaymentCompleted PaymentEventType = "payment.completed"
	PaymentFailed    PaymentEventType = "payment.failed"
)

// PaymentEvent is published after a payment has been persisted.
type PaymentEvent struct {
	Type        PaymentEventType `json:"type"`
	PaymentID   string           `json:"paymentId"`
	UserID      string           `json:"userId"`
	UserEmail   string           `json:"userEmail"`
	UserName    string           `json:"userName"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency"`
	Status      string           `json:"status"`
	Description string           `json:"description,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

func NewPaymentEvent(t PaymentEventType, p *entity.Payment, user entity.ExternalUserData) PaymentEvent {
	return PaymentEvent{
		Type:        t,
		PaymentID:   p.ID,
		UserID:      p.UserID,
		UserEmail:   user.Email,
		UserName:    user.Name,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      string(p.Status),
		Description: p.Description,
		OccurredAt:  p.UpdatedAt,
	}
}
