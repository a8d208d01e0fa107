package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors.
//
// ErrConfiguration is fatal and surfaced to the caller before any work
// starts. ErrTransientCall covers network/timeout/non-2xx failures from
// remote calls; parse failures are recovered locally and never wrapped
// in either of these.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransientCall = errors.New("transient call error")
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternal      = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func ConfigError(message string) error {
	return NewAppError("CONFIG_ERROR", message, ErrConfiguration)
}

func TransientError(message string, cause error) error {
	return NewAppError("TRANSIENT_CALL", message, fmt.Errorf("%w: %w", ErrTransientCall, cause))
}
