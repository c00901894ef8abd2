// Package apperr defines the error taxonomy shared by every module's
// service layer. Handlers map these to HTTP status codes with Status;
// anything that is not an *Error is treated as an internal failure and
// surfaced to the client as a generic message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// Validation is malformed or missing input. Maps to 400.
	Validation Kind = iota
	// NotFound means a referenced entity is absent. Maps to 404.
	NotFound
	// Conflict means the write would violate a uniqueness or
	// concurrency constraint. Maps to 409.
	Conflict
	// Internal is an unexpected persistence or system failure. Maps to
	// 500; the message is never sent to the client.
	Internal
)

// Error carries a kind and a human-readable message safe for clients
// (except Internal, whose detail stays server-side).
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

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a Validation error.
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a Conflict error.
func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

// Internalf wraps an unexpected failure. The wrapped error is kept for
// server-side logging only.
func Internalf(err error, format string, args ...interface{}) error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Err: err}
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case Validation:
			return http.StatusBadRequest
		case NotFound:
			return http.StatusNotFound
		case Conflict:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the message safe to send to the client. Internal
// errors collapse to the supplied fallback.
func ClientMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return fallback
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
