// Package errs holds the domain error taxonomy shared by every layer.
// Services return these inside result values; the HTTP boundary maps them to status codes.
package errs

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindValidation
	KindBusinessRule
	KindLookupFailed
)

// Stable codes exposed to clients.
const (
	CodeNotFound     = "ENTITY_NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeBusinessRule = "BUSINESS_RULE_VIOLATION"
	CodeLookupFailed = "LOOKUP_FAILED"
)

// Business reasons, used for status mapping before falling back to the kind.
const (
	ReasonUserNotFound             = "USER_NOT_FOUND"
	ReasonPaymentNotFound          = "PAYMENT_NOT_FOUND"
	ReasonEmailAlreadyExists       = "EMAIL_ALREADY_EXISTS"
	ReasonInvalidUser              = "INVALID_USER"
	ReasonInvalidPayment           = "INVALID_PAYMENT"
	ReasonPaymentValidationFailed  = "PAYMENT_VALIDATION_FAILED"
	ReasonInvalidPaymentTransition = "INVALID_PAYMENT_TRANSITION"
	ReasonInvalidRequest           = "INVALID_REQUEST"
	ReasonIdempotencyInFlight      = "IDEMPOTENCY_IN_FLIGHT"
)

var kindCodes = map[Kind]string{
	KindNotFound:     CodeNotFound,
	KindConflict:     CodeConflict,
	KindValidation:   CodeValidation,
	KindBusinessRule: CodeBusinessRule,
	KindLookupFailed: CodeLookupFailed,
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain failure. Message is safe to show to clients; cause is not.
type Error struct {
	Kind    Kind
	Code    string
	Reason  string
	Message string
	Fields  []FieldError
	cause   error
}

// Sentinels for errors.Is. Matching is by kind, and by reason when the target has one.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrBusinessRule    = &Error{Kind: KindBusinessRule}
	ErrLookupFailed    = &Error{Kind: KindLookupFailed}
	ErrUserNotFound    = &Error{Kind: KindNotFound, Reason: ReasonUserNotFound}
	ErrPaymentNotFound = &Error{Kind: KindNotFound, Reason: ReasonPaymentNotFound}
)

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

func newError(kind Kind, reason, message string) *Error {
	return &Error{Kind: kind, Code: kindCodes[kind], Reason: reason, Message: message}
}

// NotFound reports a missing entity, e.g. NotFound("User", id) carries reason USER_NOT_FOUND.
func NotFound(entity, id string) *Error {
	reason := ""
	switch entity {
	case "User":
		reason = ReasonUserNotFound
	case "Payment":
		reason = ReasonPaymentNotFound
	}
	return newError(KindNotFound, reason, fmt.Sprintf("%s with identifier '%s' was not found", entity, id))
}

func Conflict(reason, message string) *Error {
	return newError(KindConflict, reason, message)
}

// Validation reports invalid input. Fields is only populated for request-shape failures.
func Validation(reason, message string, fields ...FieldError) *Error {
	e := newError(KindValidation, reason, message)
	e.Fields = fields
	return e
}

func BusinessRule(reason, message string) *Error {
	return newError(KindBusinessRule, reason, message)
}

// LookupFailed hides cause from clients; it stays reachable through errors.Unwrap for logging.
func LookupFailed(message string, cause error) *Error {
	e := newError(KindLookupFailed, "", message)
	e.cause = cause
	return e
}

// As extracts the domain error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
