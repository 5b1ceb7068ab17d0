// Package common defines shared constants and sentinel errors used across
// the vault server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository / storage level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("access denied")
	ErrorValidation   = errors.New("validation error")
	ErrorUnsupported  = errors.New("not supported")

	// Request shape errors.
	ErrorTooLarge            = errors.New("payload too large")
	ErrorRangeNotSatisfiable = errors.New("range not satisfiable")
	ErrorLimitExceeded       = errors.New("limit exceeded")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// Error pairs a sentinel kind with a message safe to show to clients.
// errors.Is(err, kind) holds for any err wrapping an *Error.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// PublicMessage returns the client-facing text carried by err, if any.
func PublicMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
