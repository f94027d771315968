package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/response"
)

const (
	codeInternal    = "INTERNAL_ERROR"
	messageInternal = "internal server error"
)

// reasonStatus is consulted before the kind fallback.
var reasonStatus = map[string]int{
	errs.ReasonUserNotFound:             http.StatusNotFound,
	errs.ReasonPaymentNotFound:          http.StatusNotFound,
	errs.ReasonEmailAlreadyExists:       http.StatusConflict,
	errs.ReasonIdempotencyInFlight:      http.StatusConflict,
	errs.ReasonPaymentValidationFailed:  http.StatusUnprocessableEntity,
	errs.ReasonInvalidPayment:           http.StatusUnprocessableEntity,
	errs.ReasonInvalidPaymentTransition: http.StatusUnprocessableEntity,
}

var kindStatus = map[errs.Kind]int{
	errs.KindNotFound:     http.StatusNotFound,
	errs.KindConflict:     http.StatusConflict,
	errs.KindValidation:   http.StatusBadRequest,
	errs.KindBusinessRule: http.StatusUnprocessableEntity,
	errs.KindLookupFailed: http.StatusBadGateway,
}

// StatusFor resolves the HTTP status for err. Unknown errors are 500.
func StatusFor(err error) int {
	e, ok := errs.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, ok := reasonStatus[e.Reason]; ok {
		return status
	}
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler writes the error body for the last error a handler attached with c.Error.
// Causes are logged and never written to the client.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)

		entry := logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(CtxRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		e, ok := errs.As(err)
		if !ok || status == http.StatusInternalServerError {
			response.Error(c, status, codeInternal, messageInternal, nil)
			return
		}

		var fields []response.FieldError
		for _, f := range e.Fields {
			fields = append(fields, response.FieldError{Field: f.Field, Message: f.Message})
		}
		response.Error(c, status, e.Code, e.Message, fields)
	}
}
