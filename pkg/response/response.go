package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the success envelope every JSON endpoint returns.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data"`
	Meta      interface{} `json:"meta,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is written for every failed request.
type ErrorBody struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Path      string       `json:"path"`
	RequestID string       `json:"request_id,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// Success writes data wrapped in the envelope and returns what it wrote.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error body. It does not abort the handler chain.
func Error(ctx *gin.Context, status int, code, message string, fields []FieldError) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := ErrorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      ctx.Request.URL.Path,
		RequestID: ctx.GetString("request_id"),
		Errors:    fields,
	}
	ctx.JSON(status, body)
	return body
}
