// Package errors carries ridgeline's error codes.
//
// Every failure that crosses a package boundary is an [*Error] with a
// [Code]. The CLI prints [UserMessage], the HTTP API maps the code to a
// status, and tests assert on codes with [Is] instead of matching strings:
//
//	if errors.Is(err, errors.ErrCodeInvalidPreset) { ... }
//
// Codes group by prefix: INVALID_* for bad input or configuration,
// *NOT_FOUND for missing resources, SURFACE_UNAVAILABLE and DISPOSED for the
// backdrop lifecycle, and NETWORK_ERROR, TIMEOUT, RATE_LIMITED and
// DELIVERY_FAILED for outbound calls.
//
// Field-level validation is collected with [NewValidation].
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidCategory Code = "INVALID_CATEGORY"
	ErrCodeInvalidPreset   Code = "INVALID_PRESET"
	ErrCodeInvalidNoise    Code = "INVALID_NOISE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backdrop lifecycle.
	ErrCodeSurfaceUnavailable Code = "SURFACE_UNAVAILABLE"
	ErrCodeDisposed           Code = "DISPOSED"

	ErrCodeNetwork        Code = "NETWORK_ERROR"
	ErrCodeTimeout        Code = "TIMEOUT"
	ErrCodeRateLimited    Code = "RATE_LIMITED"
	ErrCodeDeliveryFailed Code = "DELIVERY_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coded returns the outermost *Error in err's chain.
func coded(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// As is the standard library's errors.As, so callers importing this package
// as errors keep it.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join is the standard library's errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// GetCode returns the code of err, or "" for uncoded errors.
func GetCode(err error) Code {
	if e, ok := coded(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message without the code prefix or cause.
func UserMessage(err error) string {
	if e, ok := coded(err); ok {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError is the cause attached to RATE_LIMITED errors when the
// remote side said how long to back off.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter <= 0 {
		return "rate limited"
	}
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

// Code always returns [ErrCodeRateLimited].
func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }

// RetryAfter returns the back-off hint carried anywhere in err's chain.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter <= 0 {
		return 0, false
	}
	return rl.RetryAfter, true
}
