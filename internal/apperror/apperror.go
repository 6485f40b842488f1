// Package apperror defines the error kinds returned by club operations and
// their mapping to HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	default:
		return "storage"
	}
}

// Error carries a client-safe message. Err, when set, is the underlying cause
// and is only meant for logs.
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

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error { return newf(KindValidation, format, args...) }
func Auth(format string, args ...any) *Error       { return newf(KindAuth, format, args...) }
func Forbidden(format string, args ...any) *Error  { return newf(KindForbidden, format, args...) }
func NotFound(format string, args ...any) *Error   { return newf(KindNotFound, format, args...) }
func Conflict(format string, args ...any) *Error   { return newf(KindConflict, format, args...) }
func State(format string, args ...any) *Error      { return newf(KindState, format, args...) }

// Storage wraps a persistence failure. message is what the client sees.
func Storage(err error, message string) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf classifies err. Errors that are not *Error count as storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
