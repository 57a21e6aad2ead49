package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/core/domain"
)

// DefaultPassword is the plaintext behind the digest NewAccount assigns
// when none is given.
const DefaultPassword = "12345678"

func NewAccount(customData ...map[string]any) domain.Account {
	defaults := map[string]any{
		"UUID":      uuid.New(),
		"Email":     "user-" + uuid.NewString() + "@example.com",
		"CreatedAt": time.Now().UTC(),
		"UpdatedAt": time.Now().UTC(),
	}

	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	if _, exists := defaults["PasswordDigest"]; !exists {
		digest, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		defaults["PasswordDigest"] = string(digest)
	}

	return fab.New(domain.Account{}).Build(defaults)
}

func NewCategory(customData ...map[string]any) domain.Category {
	defaults := map[string]any{
		"UUID":      uuid.New(),
		"CreatedAt": time.Now().UTC(),
		"UpdatedAt": time.Now().UTC(),
	}

	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	return fab.New(domain.Category{}).Build(defaults)
}
