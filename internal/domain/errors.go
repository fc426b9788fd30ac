package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by services and handlers
var (
	ErrUnauthorized  = errors.New("authentication required")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrQuotaExceeded = errors.New("monthly limit reached")
	ErrUpstream      = errors.New("upstream request failed")
	ErrConflict      = errors.New("already exists")
)

// Error pairs an error kind with the message shown to the client
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf creates an Error of the given kind with a formatted client message
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
