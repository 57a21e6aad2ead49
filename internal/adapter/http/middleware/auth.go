package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"storefront/internal/adapter/http/helper"
	"storefront/internal/core/domain"
	"storefront/internal/core/port"
	ct "storefront/pkg/context"
)

const (
	AccountIDKey = "x-account-id"
	accountKey   = "account"
)

// IdentifyMiddleware records who is calling without rejecting anyone. A
// bearer token wins over the session cookie.
func IdentifyMiddleware(tokens *helper.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := helper.BearerToken(c.GetHeader("Authorization")); ok {
			if subject, err := tokens.VerifyToken(token); err == nil {
				setAccountID(c, subject)
			}

			c.Next()
			return
		}

		if gw := Gateway(c); gw != nil {
			accountID, ok, err := gw.CurrentIdentity(c.Request.Context())

			if err != nil {
				slog.Error("IdentifyMiddleware", "session_error", err)
			} else if ok {
				setAccountID(c, accountID)
			}
		}

		c.Next()
	}
}

// RequireAccount rejects requests whose identity does not resolve to an
// existing account.
func RequireAccount(accounts port.AccountRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetString(AccountIDKey)

		if accountID == "" {
			helper.SendUnauthorizedError(c, "Unauthorized request")
			c.Abort()
			return
		}

		account, err := accounts.GetByUUID(c.Request.Context(), accountID)

		if errors.Is(err, domain.ErrNotFound) {
			helper.SendUnauthorizedError(c, "Unauthorized request")
			c.Abort()
			return
		}

		if err != nil {
			helper.SendInternalError(c, "Unable to load account")
			c.Abort()
			return
		}

		c.Set(accountKey, &account)
		c.Next()
	}
}

func CurrentAccount(c *gin.Context) (*domain.Account, bool) {
	if value, ok := c.Get(accountKey); ok {
		account, ok := value.(*domain.Account)
		return account, ok
	}

	return nil, false
}

func setAccountID(c *gin.Context, accountID string) {
	c.Set(AccountIDKey, accountID)
	GetCurrent(c).Set(ct.AccountIDKey, accountID)
}
