package errors

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "ann@example.com", false},
		{"subdomain", "ann.lee@mail.example.org", false},
		{"plus tag", "ann+site@example.com", false},

		{"empty", "", true},
		{"no at", "ann.example.com", true},
		{"display name", "Ann <ann@example.com>", true},
		{"two addresses", "a@x.org, b@x.org", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateEmail(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxLen  int
		wantErr bool
	}{
		{"plain", "hello there", 0, false},
		{"multiline", "line one\nline two\r\n\tindented", 0, false},
		{"at limit", "abcd", 4, false},

		{"empty", "", 0, true},
		{"whitespace only", "  \n\t", 0, true},
		{"over limit", "abcde", 4, true},
		{"null byte", "foo\x00bar", 0, true},
		{"bell", "foo\x07", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("message", tt.input, tt.maxLen)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	v := NewValidation(ErrCodeInvalidConfig)
	if v.Err() != nil {
		t.Fatal("empty ValidationError should produce nil Err()")
	}

	v.Check(true, "layers", "must be positive")
	v.Check(false, "grid_size", "must be at least %d", 2)
	v.Add("fov", "out of range")

	err := v.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	if !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
	}
	if len(v.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(v.Fields))
	}

	msg := UserMessage(err)
	for _, want := range []string{"grid_size: must be at least 2", "fov: out of range"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestValidationErrorNil(t *testing.T) {
	var v *ValidationError
	if v.Err() != nil {
		t.Error("nil ValidationError should produce nil Err()")
	}
}
