package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-ports-adapters/internal/interface/http"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
)

// UserModule serves the user resource. The batch lookup is the only route
// meant for other services and is guarded by a service token when one is configured.
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *helpers.ServiceTokenManager
}

func NewUserModule(h *handlers.UserHandler, tokens *helpers.ServiceTokenManager) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", m.Handler.Create)
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
		users.HEAD("/:id", m.Handler.Head)
		users.PATCH("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
		users.POST("/batch", middleware.ServiceAuth(m.Tokens), m.Handler.Batch)
	}
}
