package handlers

import (
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/validation"
)

// bindingError converts a gin binding failure into a validation error carrying per-field details.
func bindingError(err error) error {
	issues := validation.ToIssues(err)
	fields := make([]errs.FieldError, 0, len(issues))
	for _, is := range issues {
		fields = append(fields, errs.FieldError{Field: is.Field, Message: is.Message})
	}
	return errs.Validation(errs.ReasonInvalidRequest, "request validation failed", fields...)
}
