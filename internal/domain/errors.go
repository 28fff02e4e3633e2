package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalid              = errors.New("invalid input")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrEmailExists          = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrDateUnavailable      = errors.New("date not available")
	ErrInsufficientCapacity = errors.New("not enough spots left")
)

// Invalid wraps ErrInvalid with a message safe to show to clients.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return ErrInvalid }
