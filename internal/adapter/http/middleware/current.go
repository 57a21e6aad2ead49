package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/adapter/http/helper"
	ct "storefront/pkg/context"
)

const currentKey = "current"

// CurrentMiddleware attaches a fresh per-request Current to the gin and
// request contexts.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		current.Set(ct.RequestIDKey, requestID)
		current.Set(ct.UserAgentKey, c.Request.UserAgent())
		current.Set(ct.ClientIPKey, helper.GetClientIP(c))
		current.Set("method", c.Request.Method)
		current.Set("path", c.Request.URL.Path)

		c.Header("X-Request-ID", requestID)

		c.Request = c.Request.WithContext(ct.WithCurrent(c.Request.Context(), current))
		c.Set(currentKey, current)

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get(currentKey); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	return ct.GetCurrent(c.Request.Context())
}
