package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/adapter/session"
	"storefront/internal/core/port"
)

const gatewayKey = "session_gateway"

// SessionMiddleware binds a session gateway to each request.
func SessionMiddleware(store port.SessionStore, opts session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(gatewayKey, session.NewCookieGateway(c.Writer, c.Request, store, opts))
		c.Next()
	}
}

// Gateway returns the request's session gateway, or nil when
// SessionMiddleware is not installed.
func Gateway(c *gin.Context) port.SessionGateway {
	if gw, ok := c.Get(gatewayKey); ok {
		if gateway, ok := gw.(port.SessionGateway); ok {
			return gateway
		}
	}

	return nil
}
