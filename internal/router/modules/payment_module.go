package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-ports-adapters/internal/interface/http"
)

type PaymentModule struct {
	Handler *handlers.PaymentHandler
}

func NewPaymentModule(h *handlers.PaymentHandler) *PaymentModule {
	return &PaymentModule{Handler: h}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", m.Handler.Create)
		payments.GET("/:id", m.Handler.Get)
		payments.GET("/user/:userId", m.Handler.ListByUser)
		payments.POST("/:id/complete", m.Handler.Complete)
		payments.POST("/:id/fail", m.Handler.Fail)
	}
}
