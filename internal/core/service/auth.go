package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/core/domain"
	"storefront/internal/core/port"
)

type AuthService struct {
	repo      port.AccountRepository
	hasher    port.PasswordHasher
	validator *AccountValidator
	tokens    port.TokenIssuer
}

func NewAuthService(repo port.AccountRepository, hasher port.PasswordHasher, tokens port.TokenIssuer) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		validator: NewAccountValidator(repo),
		tokens:    tokens,
	}
}

// Registration validates the draft and persists a new account. Rule
// violations come back as domain.Violations.
func (as *AuthService) Registration(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
	violations, err := as.validator.Validate(ctx, draft)

	if err != nil {
		return nil, fmt.Errorf("validating account: %w", err)
	}

	if err := violations.Err(); err != nil {
		slog.Info("Auth#Registration", "violations", len(violations))
		return nil, err
	}

	digest, err := as.hasher.Hash(*draft.Password)

	if err != nil {
		return nil, fmt.Errorf("error creating encrypted password: %w", err)
	}

	now := time.Now().UTC()

	account := domain.Account{
		UUID:           uuid.New(),
		Email:          strings.TrimSpace(draft.Email),
		PasswordDigest: digest,
		FirstName:      strings.TrimSpace(draft.FirstName),
		LastName:       strings.TrimSpace(draft.LastName),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	saved, err := as.repo.Create(ctx, account)

	if err != nil {
		return nil, err
	}

	return &saved, nil
}

// Authenticate normalizes the email, looks the account up and verifies the
// password. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (as *AuthService) Authenticate(ctx context.Context, email string, password string) (*domain.Account, error) {
	account, err := as.repo.FindByNormalizedEmail(ctx, domain.NormalizeEmail(email))

	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("Auth#Authenticate", "result", "unknown_email")
		return nil, domain.ErrInvalidCredentials
	}

	if err != nil {
		slog.Error("Auth#Authenticate", "find_by_email", err)
		return nil, fmt.Errorf("authentication lookup failed: %w", err)
	}

	if !as.hasher.Verify(password, account.PasswordDigest) {
		slog.Info("Auth#Authenticate", "result", "password_mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	return &account, nil
}

func (as *AuthService) IssueToken(account *domain.Account) (string, error) {
	if as.tokens == nil {
		return "", errors.New("token issuer not configured")
	}

	return as.tokens.CreateToken(account.UUID.String())
}
