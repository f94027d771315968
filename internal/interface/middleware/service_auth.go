package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/response"
)

const CtxServiceKey = "service"

// ServiceAuth requires a valid service bearer token. A nil manager lets every request through.
func ServiceAuth(tokens *helpers.ServiceTokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing service token", nil)
			c.Abort()
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid service token", nil)
			c.Abort()
			return
		}
		c.Set(CtxServiceKey, claims.Service)
		c.Next()
	}
}
