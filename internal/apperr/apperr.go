// Package apperr carries the error taxonomy returned by services and mapped
// onto HTTP statuses by the transport layer.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, msg string) *Error { return &Error{Status: status, Msg: msg} }

func Wrap(status int, msg string, err error) *Error {
	return &Error{Status: status, Msg: msg, Err: err}
}

func NotFound(msg string) *Error     { return New(http.StatusNotFound, msg) }
func Forbidden(msg string) *Error    { return New(http.StatusForbidden, msg) }
func Conflict(msg string) *Error     { return New(http.StatusConflict, msg) }
func BadRequest(msg string) *Error   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return Wrap(http.StatusInternalServerError, "Internal server error", err)
}

// FromRule turns a domain rule violation into Forbidden, keeping its message.
func FromRule(err error) error {
	if err == nil {
		return nil
	}
	return Wrap(http.StatusForbidden, err.Error(), err)
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err, 500 for unknown errors.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
