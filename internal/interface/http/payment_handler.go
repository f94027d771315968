package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/application"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/response"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type PaymentHandler struct {
	Svc    *application.PaymentService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

// Amount is a pointer so a missing amount is a 400 while amount 0 reaches domain validation.
type createPaymentRequest struct {
	UserID      string   `json:"userId" binding:"required"`
	Amount      *float64 `json:"amount" binding:"required"`
	Currency    string   `json:"currency" binding:"required"`
	Description string   `json:"description" binding:"max=500"`
}

type paymentURI struct {
	ID string `uri:"id" binding:"required"`
}

type userPaymentsURI struct {
	UserID string `uri:"userId" binding:"required"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.CreatePayment(c.Request.Context(), application.CreatePaymentInput{
		UserID:         req.UserID,
		Amount:         *req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	if out.Replayed {
		response.Success(c, http.StatusOK, out, "payment already created", gin.H{"replayed": true})
		return
	}
	response.Success(c, http.StatusCreated, out, "payment created", nil)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	var uri paymentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.GetPaymentByID(c.Request.Context(), uri.ID).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, out, "payment", nil)
}

func (h *PaymentHandler) ListByUser(c *gin.Context) {
	var uri userPaymentsURI
	if err := c.ShouldBindUri(&uri); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.GetPaymentsByUserID(c.Request.Context(), uri.UserID).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, out, "payments", gin.H{"count": len(out)})
}

func (h *PaymentHandler) Complete(c *gin.Context) {
	var uri paymentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.CompletePayment(c.Request.Context(), uri.ID).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, out, "payment completed", nil)
}

func (h *PaymentHandler) Fail(c *gin.Context) {
	var uri paymentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.FailPayment(c.Request.Context(), uri.ID).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, out, "payment failed", nil)
}
