// Package common defines shared constants and sentinel errors used across
// the storage, service and transport layers of gophreg. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Input rejected by validation.
	ErrorValidation = errors.New("validation error")

	// Registration workflow errors.
	ErrDuplicateIdentity = errors.New("full name already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicatePhone    = errors.New("phone number already exists")
	ErrMissingIdentity   = errors.New("user id not found in session")

	// Session store errors.
	ErrSessionNotFound = errors.New("session not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
