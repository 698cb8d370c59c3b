// Package apperrors classifies request failures so handlers can map them to
// HTTP status codes without inspecting store-specific errors.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindAuth
	KindNotFound
)

// ErrNotFound is returned by repositories when no row or document matches.
var ErrNotFound = errors.New("not found")

// Error is a classified failure. Message is safe to return to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New classifies err under kind with a caller-facing message.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Auth(message string, err error) *Error {
	return &Error{Kind: KindAuth, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: ErrNotFound}
}

// Store wraps a persistence failure. The underlying message is surfaced as-is.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: err.Error(), Err: err}
}

// KindOf reports the classification of err. Unclassified errors count as
// store failures, except ErrNotFound which keeps its meaning when wrapped.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindStore
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
