package entities

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP layer can pick a status without
// inspecting messages.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindPrecondition
	KindMalformed
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindMalformed:
		return "malformed_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Error is the typed failure returned by stores, repositories and services
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrMissingCredentials = &Error{Kind: KindUnauthorized, Message: "missing authorization header"}
	ErrInvalidCredentials = &Error{Kind: KindForbidden, Message: "invalid token"}
	ErrEmptyPatch         = &Error{Kind: KindValidation, Message: "at least one field must be provided"}
	ErrBookUnavailable    = &Error{Kind: KindPrecondition, Message: "book is not available"}
	ErrBookAlreadyIn      = &Error{Kind: KindPrecondition, Message: "book is already available"}
)

// KindOf returns the kind carried by err, KindInternal when err is untyped
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewPreconditionError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(resource string, id int) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
}

func NewStorageError(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: op, Err: err}
}

func NewMalformedError(message string, err error) *Error {
	return &Error{Kind: KindMalformed, Message: message, Err: err}
}

func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
