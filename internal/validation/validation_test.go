package validation

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"Valid email", "user@example.com", true},
		{"Valid email with subdomain", "user@mail.example.com", true},
		{"Empty email", "", false},
		{"Email without @", "userexample.com", false},
		{"Email without domain", "user@", false},
		{"Email with spaces", "user @example.com", false},
		{"Valid email with numbers", "user123@example.com", true},
		{"Valid email with dots", "user.name@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateEmail(tt.email)
			if result != tt.expected {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, result, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{"Email with uppercase", "User@EXAMPLE.COM", "user@example.com"},
		{"Email with spaces", "  user@example.com  ", "user@example.com"},
		{"Already normalized", "user@example.com", "user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeEmail(tt.email)
			if result != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.email, result, tt.expected)
			}
		})
	}
}

func TestValidateGroupName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Simple name", "Study Group", true},
		{"Single character", "A", true},
		{"Empty", "", false},
		{"Whitespace only", "   ", false},
		{"At the limit", strings.Repeat("a", 100), true},
		{"Over the limit", strings.Repeat("a", 101), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateGroupName(tt.input)
			if result != tt.expected {
				t.Errorf("ValidateGroupName(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	os.Unsetenv("PASSWORD_MIN_LENGTH")
	if ValidatePassword("1234567") {
		t.Error("7 chars accepted with default minimum of 8")
	}
	if !ValidatePassword("12345678") {
		t.Error("8 chars rejected with default minimum of 8")
	}

	os.Setenv("PASSWORD_MIN_LENGTH", "12")
	defer os.Unsetenv("PASSWORD_MIN_LENGTH")
	if ValidatePassword("12345678") {
		t.Error("8 chars accepted with configured minimum of 12")
	}
	if !ValidatePassword("123456789012") {
		t.Error("12 chars rejected with configured minimum of 12")
	}
}

func TestMaxMessageLength(t *testing.T) {
	os.Unsetenv("MAX_MESSAGE_LENGTH")
	if got := MaxMessageLength(); got != 4000 {
		t.Errorf("default = %d, want 4000", got)
	}

	os.Setenv("MAX_MESSAGE_LENGTH", "500")
	defer os.Unsetenv("MAX_MESSAGE_LENGTH")
	if got := MaxMessageLength(); got != 500 {
		t.Errorf("configured = %d, want 500", got)
	}

	os.Setenv("MAX_MESSAGE_LENGTH", "garbage")
	if got := MaxMessageLength(); got != 4000 {
		t.Errorf("invalid value = %d, want fallback 4000", got)
	}
}

func TestUploadMaxBytes(t *testing.T) {
	os.Unsetenv("UPLOAD_MAX_BYTES")
	if got := UploadMaxBytes(); got != 50*1024*1024 {
		t.Errorf("default = %d, want 50 MiB", got)
	}

	os.Setenv("UPLOAD_MAX_BYTES", "1048576")
	defer os.Unsetenv("UPLOAD_MAX_BYTES")
	if got := UploadMaxBytes(); got != 1048576 {
		t.Errorf("configured = %d, want 1 MiB", got)
	}

	os.Setenv("UPLOAD_MAX_BYTES", "-5")
	if got := UploadMaxBytes(); got != 50*1024*1024 {
		t.Errorf("negative value = %d, want fallback 50 MiB", got)
	}
}

func TestTrimAndLimit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"Trims whitespace", "  hello  ", 100, "hello"},
		{"Truncates over limit", "abcdef", 3, "abc"},
		{"No limit when zero", "abcdef", 0, "abcdef"},
		{"Empty input", "   ", 10, ""},
		{"Cut inside a two-byte rune backs off", "héllo", 2, "h"},
		{"Cut on a rune boundary keeps it", "héllo", 3, "hé"},
		{"Cut inside a four-byte rune backs off", "a\U0001F600b", 3, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimAndLimit(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("TrimAndLimit(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
			if !utf8.ValidString(result) {
				t.Errorf("TrimAndLimit(%q, %d) produced invalid UTF-8 %q", tt.input, tt.max, result)
			}
		})
	}
}
