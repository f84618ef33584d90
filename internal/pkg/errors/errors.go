// Package errors provides status-coded errors that map service failures onto
// HTTP responses without handlers inspecting error strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status code, a stable machine-readable reason, and a
// human-readable message.
type Error struct {
	Status  int    `json:"status"`
	Reason  string `json:"reason"`
	Message string `json:"message"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause returns a copy of e wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// Is matches on status and reason so sentinel errors survive WithCause.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}
	return te.Status == e.Status && te.Reason == e.Reason
}

// New creates an Error with an explicit status code.
func New(status int, reason, message string) *Error {
	return &Error{Status: status, Reason: reason, Message: message}
}

func BadRequest(reason, message string) *Error {
	return New(http.StatusBadRequest, reason, message)
}

func Unauthorized(reason, message string) *Error {
	return New(http.StatusUnauthorized, reason, message)
}

func Forbidden(reason, message string) *Error {
	return New(http.StatusForbidden, reason, message)
}

func NotFound(reason, message string) *Error {
	return New(http.StatusNotFound, reason, message)
}

func Conflict(reason, message string) *Error {
	return New(http.StatusConflict, reason, message)
}

func TooManyRequests(reason, message string) *Error {
	return New(http.StatusTooManyRequests, reason, message)
}

func InternalServer(reason, message string) *Error {
	return New(http.StatusInternalServerError, reason, message)
}

func ServiceUnavailable(reason, message string) *Error {
	return New(http.StatusServiceUnavailable, reason, message)
}

// Code returns the HTTP status carried by err, or 500 for plain errors.
func Code(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Reason returns the machine-readable reason carried by err, or "" for
// plain errors.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// FromError normalizes any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return InternalServer("INTERNAL", err.Error())
}
