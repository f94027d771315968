// Package service holds stateless domain rules that span more than one field or need a repository.
package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

// MaxPaymentAmount is the largest amount a single payment may carry.
const MaxPaymentAmount = 10_000_000

// AmountDecimals is the precision the payments table stores amounts with.
const AmountDecimals = 2

var supportedCurrencies = map[string]struct{}{
	"USD": {},
	"VND": {},
	"EUR": {},
	"GBP": {},
}

type PaymentDomainService struct{}

func NewPaymentDomainService() *PaymentDomainService {
	return &PaymentDomainService{}
}

// ValidatePayment checks the amount bounds and precision and the currency allow-list. Currency is matched case-insensitively.
func (s *PaymentDomainService) ValidatePayment(amount float64, currency string) result.Void {
	if amount <= 0 {
		return result.Fail[struct{}](errs.Validation(errs.ReasonPaymentValidationFailed, "amount must be positive"))
	}
	if amount > MaxPaymentAmount {
		return result.Fail[struct{}](errs.Validation(errs.ReasonPaymentValidationFailed,
			fmt.Sprintf("amount exceeds maximum of %d", MaxPaymentAmount)))
	}
	if !hasAmountPrecision(amount) {
		return result.Fail[struct{}](errs.Validation(errs.ReasonPaymentValidationFailed,
			fmt.Sprintf("amount must have at most %d decimal places", AmountDecimals)))
	}
	if !IsSupportedCurrency(currency) {
		return result.Fail[struct{}](errs.Validation(errs.ReasonPaymentValidationFailed,
			fmt.Sprintf("unsupported currency: %s", currency)))
	}
	return result.Done()
}

func hasAmountPrecision(amount float64) bool {
	scaled := amount * math.Pow10(AmountDecimals)
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func IsSupportedCurrency(currency string) bool {
	_, ok := supportedCurrencies[strings.ToUpper(strings.TrimSpace(currency))]
	return ok
}
