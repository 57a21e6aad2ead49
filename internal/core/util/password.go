package util

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements port.PasswordHasher.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	return GenerateEncrypt(password, h.Cost)
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return ComparePassword(password, digest) == nil
}

func GenerateEncrypt(password string, cost int) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), cost)

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

func ComparePassword(password, encrypted string) error {
	return bcrypt.CompareHashAndPassword([]byte(encrypted), []byte(password))
}
