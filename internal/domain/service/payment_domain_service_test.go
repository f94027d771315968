package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
)

func TestValidatePayment(t *testing.T) {
	svc := NewPaymentDomainService()

	tests := []struct {
		name     string
		amount   float64
		currency string
		ok       bool
	}{
		{"lower-case usd", 100.50, "usd", true},
		{"vnd at ceiling", MaxPaymentAmount, "VND", true},
		{"mixed-case eur", 1, "eUr", true},
		{"zero", 0, "USD", false},
		{"negative", -0.01, "USD", false},
		{"above ceiling", MaxPaymentAmount + 0.01, "USD", false},
		{"two decimals", 100.51, "USD", true},
		{"sub-cent amount", 0.001, "USD", false},
		{"three decimals", 100.505, "EUR", false},
		{"unsupported", 10, "JPY", false},
		{"empty currency", 10, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.ValidatePayment(tt.amount, tt.currency)
			assert.Equal(t, tt.ok, res.IsOk(), "err: %v", res.Err())
			if !tt.ok {
				e, found := errs.As(res.Err())
				if assert.True(t, found) {
					assert.Equal(t, errs.ReasonPaymentValidationFailed, e.Reason)
					assert.Equal(t, errs.KindValidation, e.Kind)
				}
			}
		})
	}
}
