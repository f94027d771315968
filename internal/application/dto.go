package application

import (
	"time"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
	// UnknownUser stands in for name and email when a payment's user cannot be looked up.
	UnknownUser = "Unknown"
)

type CreateUserInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateUserInput carries only the fields to change; nil means untouched.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
}

type ListUsersInput struct {
	Limit  int
	Offset int
}

type UserOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserListOutput struct {
	Users  []UserOutput `json:"users"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

type CreatePaymentInput struct {
	UserID      string
	Amount      float64
	Currency    string
	Description string
	// IdempotencyKey is optional. Replays with the same key return the first payment.
	IdempotencyKey string
}

type PaymentOutput struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// Replayed is set when the output comes from an earlier request with the same idempotency key.
	Replayed bool `json:"-"`
}

func toUserOutput(u *entity.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toPaymentOutput(p *entity.Payment, user entity.ExternalUserData) PaymentOutput {
	return PaymentOutput{
		ID:          p.ID,
		UserID:      p.UserID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      string(p.Status),
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
