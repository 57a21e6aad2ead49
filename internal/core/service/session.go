package service

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/core/domain"
	"storefront/internal/core/port"
)

// SessionService moves a request between the anonymous and authenticated
// states through the gateway bound to that request.
type SessionService struct {
	auth      port.AuthService
	accounts  port.AccountRepository
	telemetry port.Telemetry
}

func NewSessionService(auth port.AuthService, accounts port.AccountRepository, telemetry port.Telemetry) *SessionService {
	return &SessionService{
		auth:      auth,
		accounts:  accounts,
		telemetry: telemetry,
	}
}

func (ss *SessionService) Login(ctx context.Context, gw port.SessionGateway, email string, password string) (*domain.Account, error) {
	ctx, span := ss.telemetry.StartServiceSpan(ctx, "session", "login", nil)
	defer span.End()

	account, err := ss.auth.Authenticate(ctx, email, password)

	if err != nil {
		span.RecordError(err)
		ss.telemetry.RecordBusinessEvent(ctx, "failure", "session", "", nil)
		return nil, err
	}

	if err := gw.SetIdentity(ctx, account.UUID.String()); err != nil {
		slog.Error("Session#Login", "set_identity", err)
		span.RecordError(err)
		return nil, err
	}

	ss.telemetry.RecordBusinessEvent(ctx, "success", "session", account.UUID.String(), nil)

	return account, nil
}

func (ss *SessionService) Logout(ctx context.Context, gw port.SessionGateway) error {
	return gw.ClearIdentity(ctx)
}

// Current returns nil when the request is anonymous or the stored identity
// no longer resolves to an account.
func (ss *SessionService) Current(ctx context.Context, gw port.SessionGateway) (*domain.Account, error) {
	accountID, ok, err := gw.CurrentIdentity(ctx)

	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, nil
	}

	account, err := ss.accounts.GetByUUID(ctx, accountID)

	if errors.Is(err, domain.ErrNotFound) {
		slog.Warn("Session#Current", "dangling_identity", accountID)
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &account, nil
}
