package errors

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Reason
}

// ValidationError collects field-level problems found while validating
// configuration or user input. A nil *ValidationError means "valid".
type ValidationError struct {
	Code   Code
	Fields []FieldError
}

// NewValidation creates an empty validation error for the given code.
func NewValidation(code Code) *ValidationError {
	return &ValidationError{Code: code}
}

// Add records a problem with field. Reason is formatted with args.
func (v *ValidationError) Add(field, reason string, args ...any) {
	v.Fields = append(v.Fields, FieldError{Field: field, Reason: fmt.Sprintf(reason, args...)})
}

// Check records reason for field when ok is false.
func (v *ValidationError) Check(ok bool, field, reason string, args ...any) {
	if !ok {
		v.Add(field, reason, args...)
	}
}

// Err returns the validation error as an *Error, or nil when no field failed.
func (v *ValidationError) Err() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return &Error{Code: v.Code, Message: v.message(), Cause: v}
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return v.message()
}

func (v *ValidationError) message() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateEmail checks that addr is a single bare address ("name@host").
// Display-name forms like "Ann <ann@x.org>" are rejected.
func ValidateEmail(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "email cannot be empty")
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid email address")
	}
	if parsed.Address != addr {
		return New(ErrCodeInvalidInput, "email must be a bare address")
	}
	return nil
}

// ValidateText rejects empty or oversized free text and control characters
// other than newlines and tabs.
func ValidateText(field, s string, maxLen int) error {
	if strings.TrimSpace(s) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}
	if maxLen > 0 && len(s) > maxLen {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxLen)
	}
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}
