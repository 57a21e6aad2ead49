package port

import (
	"context"
	"time"

	"storefront/internal/core/domain"
)

// SessionGateway is bound to a single request. The identity it carries is
// an account UUID.
type SessionGateway interface {
	SetIdentity(ctx context.Context, accountID string) error
	ClearIdentity(ctx context.Context) error
	CurrentIdentity(ctx context.Context) (string, bool, error)
}

// SessionStore keeps session id -> account id server-side.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, accountID string, ttl time.Duration) error
	Find(ctx context.Context, sessionID string) (string, bool, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

type SessionService interface {
	Login(ctx context.Context, gw SessionGateway, email string, password string) (*domain.Account, error)
	Logout(ctx context.Context, gw SessionGateway) error
	Current(ctx context.Context, gw SessionGateway) (*domain.Account, error)
}
