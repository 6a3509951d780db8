// Package common holds the errors, retry loop and logging setup shared by
// the payee packages.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a stored record or keyword does not exist.
	ErrNotFound = errors.New("not found")

	ErrNoPayees        = errors.New("no payees to classify")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrMissingColumn   = errors.New("payee column not found")

	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the terminal alongside the cause,
// which is only logged at debug level.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a user-facing message. err may be nil.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}
