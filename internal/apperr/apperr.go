package apperr

import (
	"errors"
	"net/http"
)

// Error is a typed, status-aware application error. Message is what callers
// see; Err carries the detail that only reaches logs (and development responses).
type Error struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Message != "" {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code so wrapped copies of a sentinel compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap copies base, attaching err and optionally replacing the public message.
func Wrap(err error, base *Error, message string) *Error {
	if err == nil {
		return nil
	}
	if base == nil {
		base = ErrInternal
	}
	cp := *base
	if message != "" {
		cp.Message = message
	}
	cp.Err = err
	return &cp
}

// With copies base with a different public message and no cause.
func With(base *Error, message string) *Error {
	cp := *base
	cp.Message = message
	return &cp
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func Status(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// PublicMessage never leaks the wrapped cause.
func PublicMessage(err error) string {
	if e, ok := As(err); ok {
		if e.Message != "" {
			return e.Message
		}
		return http.StatusText(Status(e))
	}
	return http.StatusText(http.StatusInternalServerError)
}

var (
	ErrBadRequest   = New("bad_request", http.StatusBadRequest, "Invalid request")
	ErrValidation   = New("validation_error", http.StatusBadRequest, "Validation failed")
	ErrSignature    = New("invalid_signature", http.StatusBadRequest, "Signature verification failed")
	ErrUnauthorized = New("unauthorized", http.StatusUnauthorized, "Unauthorized")
	ErrForbidden    = New("forbidden", http.StatusForbidden, "Access denied")
	ErrNotFound     = New("not_found", http.StatusNotFound, "Not found")
	ErrConflict     = New("conflict", http.StatusConflict, "Conflict")
	ErrRateLimited  = New("rate_limited", http.StatusTooManyRequests, "Too many requests")
	ErrInternal     = New("internal_error", http.StatusInternalServerError, "Internal server error")
	ErrDatabase     = New("database_error", http.StatusInternalServerError, "Internal server error")
	ErrProvider     = New("provider_error", http.StatusInternalServerError, "Payment provider error")
)
