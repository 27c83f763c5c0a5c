package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("missing auth")
	ErrForbidden       = errors.New("forbidden")
	ErrQuotaExceeded   = errors.New("usage limit exceeded")
	ErrDatabaseError   = errors.New("database error")
	ErrCacheError      = errors.New("cache error")
	ErrProviderFailure = errors.New("completion provider failure")
)

type Error struct {
	Err     error
	Message string
	Code    string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
		Code:    "INTERNAL_ERROR",
	}
}

// Invalid returns a validation error that still matches ErrInvalidInput.
func Invalid(message string) *Error {
	return &Error{
		Err:     ErrInvalidInput,
		Message: message,
		Code:    "INVALID_INPUT",
	}
}

// Provider reports a failed completion call. The cause is kept in the message only.
func Provider(message string, cause error) *Error {
	if cause != nil {
		message = message + ": " + cause.Error()
	}
	return &Error{
		Err:     ErrProviderFailure,
		Message: message,
		Code:    "PROVIDER_FAILURE",
	}
}

// HTTPStatus maps an error from any layer to the response status the API returns for it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
