package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
)

const CtxRequestIDKey = "request_id"

// RequestIDMiddleware keeps a caller-supplied X-Request-ID when it is a UUID and mints one otherwise.
// The id is stored in the gin context and the request context, and echoed in the response header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(helpers.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(CtxRequestIDKey, id)
		c.Request = c.Request.WithContext(helpers.WithRequestID(c.Request.Context(), id))
		c.Header(helpers.RequestIDHeader, id)
		c.Next()
	}
}
