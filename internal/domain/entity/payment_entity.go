package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	// PaymentRefunded has no transition into it yet.
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment is the aggregate root for payments.
// UserID references a user; the payment does not own it.
type Payment struct {
	ID          string
	UserID      string
	Amount      float64
	Currency    string
	Status      PaymentStatus
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPayment builds a pending payment. Currency is stored upper-cased.
func NewPayment(userID string, amount float64, currency, description string) result.Result[*Payment] {
	if amount <= 0 {
		return result.Fail[*Payment](errs.Validation(errs.ReasonInvalidPayment, "amount must be positive"))
	}
	currency = strings.TrimSpace(currency)
	if len(currency) != 3 {
		return result.Fail[*Payment](errs.Validation(errs.ReasonInvalidPayment, "currency must be 3-letter code"))
	}

	now := time.Now().UTC()
	return result.Ok(&Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Currency:    strings.ToUpper(currency),
		Status:      PaymentPending,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (p *Payment) Complete() result.Void {
	if p.Status != PaymentPending {
		return result.Fail[struct{}](errs.BusinessRule(errs.ReasonInvalidPaymentTransition, "only pending payments can be completed"))
	}
	p.Status = PaymentCompleted
	p.UpdatedAt = time.Now().UTC()
	return result.Done()
}

func (p *Payment) Fail() result.Void {
	if p.Status != PaymentPending {
		return result.Fail[struct{}](errs.BusinessRule(errs.ReasonInvalidPaymentTransition, "only pending payments can fail"))
	}
	p.Status = PaymentFailed
	p.UpdatedAt = time.Now().UTC()
	return result.Done()
}
