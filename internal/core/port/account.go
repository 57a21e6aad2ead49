package port

import (
	"context"

	"storefront/internal/core/domain"
)

type AccountRepository interface {
	// FindByNormalizedEmail matches the stored domain.NormalizeEmail form
	// against an already normalized address. Returns domain.ErrNotFound when absent.
	FindByNormalizedEmail(ctx context.Context, email string) (domain.Account, error)
	GetByUUID(ctx context.Context, uuid string) (domain.Account, error)
	// Create returns domain.Violations{Duplicate("email")} when the
	// unique index rejects the row.
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
}

type AuthService interface {
	Registration(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error)
	Authenticate(ctx context.Context, email string, password string) (*domain.Account, error)
	IssueToken(account *domain.Account) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type TokenIssuer interface {
	CreateToken(subject string) (string, error)
}
