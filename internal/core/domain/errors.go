package domain

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCursor      = errors.New("invalid pagination cursor")
)
