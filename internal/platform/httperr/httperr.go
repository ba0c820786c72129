// Package httperr defines the error taxonomy surfaced by the HTTP API.
// Services and handlers return *Error values; the echo error handler in
// handler.go translates them into the wire format.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// Error is an HTTP-mappable error. Internal carries the underlying cause for
// logging; it is never written to the response.
type Error struct {
	Status   int
	Message  string
	Fields   []FieldError
	Internal error
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		return e.Fields[0].Msg
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Validation returns a 400 carrying per-field messages.
func Validation(fields ...FieldError) *Error {
	return &Error{Status: http.StatusBadRequest, Fields: fields}
}

// Conflict returns a 400 with a single message, used for business-rule
// violations such as duplicate emails or invalid references.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Forbidden returns a 403. With no message the generic denial is used so the
// response does not leak why access was refused.
func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "Access denied"
	}
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// NotFound returns a 404 with the given message.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Unauthorized returns a 401.
func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "Authentication required"
	}
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Internal wraps an unexpected error. The cause is logged server-side; the
// client only ever sees a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Server error", Internal: err}
}

// From returns err as an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return Internal(err)
}
