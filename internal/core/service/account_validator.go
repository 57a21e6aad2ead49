package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"storefront/internal/core/domain"
	"storefront/internal/core/port"
)

// AccountValidator decides whether an account draft may be persisted. All
// violated rules are reported together; nothing is written.
type AccountValidator struct {
	repo port.AccountRepository
}

func NewAccountValidator(repo port.AccountRepository) *AccountValidator {
	return &AccountValidator{repo}
}

// Validate returns the violations found in draft. The error is non-nil only
// when the duplicate lookup itself fails.
func (v *AccountValidator) Validate(ctx context.Context, draft domain.AccountDraft) (domain.Violations, error) {
	var violations domain.Violations

	email := strings.TrimSpace(draft.Email)

	if email == "" {
		violations = append(violations, domain.Blank("email"))
	} else {
		taken, err := v.emailTaken(ctx, email)

		if err != nil {
			return nil, err
		}

		if taken {
			violations = append(violations, domain.Duplicate("email"))
		}
	}

	if draft.Password == nil || *draft.Password == "" {
		violations = append(violations, domain.Blank("password"))
	} else if utf8.RuneCountInString(*draft.Password) < domain.MinPasswordLength {
		violations = append(violations, domain.Short("password", domain.MinPasswordLength))
	} else if len(*draft.Password) > domain.MaxPasswordBytes {
		violations = append(violations, domain.Long("password", domain.MaxPasswordBytes))
	}

	if draft.Password != nil && draft.PasswordConfirmation != nil && *draft.Password != *draft.PasswordConfirmation {
		violations = append(violations, domain.Mismatched("password_confirmation", "password"))
	}

	return violations, nil
}

func (v *AccountValidator) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := v.repo.FindByNormalizedEmail(ctx, domain.NormalizeEmail(email))

	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		slog.Error("AccountValidator#Validate", "find_by_email", err)
		return false, err
	}

	return true, nil
}
