package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error so the HTTP boundary can pick a status code.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindInvalidState
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func InvalidState(message string) *Error { return New(KindInvalidState, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// StatusCode maps a kind to its HTTP status. Unknown kinds are 500.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput, KindInvalidState:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
