// Domain errors of the student service.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: no record with that identifier, or an empty result set.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the email is already used by another record.
	ErrConflict = errors.New("conflict")
	// ErrValidation: malformed field values.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidParameter: a query parameter outside its allow-list.
	ErrInvalidParameter = fmt.Errorf("%w: invalid parameter", ErrValidation)
)

// Error is a domain failure with the message shown to the client.
// errors.Is matches it against its Kind, errors.As reaches its Cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func invalidParameter(msg string) error {
	return &Error{Kind: ErrInvalidParameter, Message: msg}
}

func invalid(cause error) error {
	return &Error{Kind: ErrValidation, Message: cause.Error(), Cause: cause}
}
