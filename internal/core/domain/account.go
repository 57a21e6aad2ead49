package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

type Account struct {
	ID             int
	UUID           uuid.UUID
	Email          string
	PasswordDigest string
	FirstName      string
	LastName       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// AccountDraft is a candidate account write. Password and
// PasswordConfirmation are nil when they were not supplied at all.
type AccountDraft struct {
	Email                string
	Password             *string
	PasswordConfirmation *string
	FirstName            string
	LastName             string
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
