package validation

import (
	"net/mail"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func ValidateGroupName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 1 && len(name) <= 100
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 8
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 6 {
		return 8
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

// UploadMaxBytes is the attachment size cap, configurable so deployments
// can tighten it without a rebuild.
func UploadMaxBytes() int64 {
	maxStr := os.Getenv("UPLOAD_MAX_BYTES")
	if maxStr == "" {
		return 50 * 1024 * 1024
	}
	max, err := strconv.ParseInt(maxStr, 10, 64)
	if err != nil || max < 1 {
		return 50 * 1024 * 1024
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	// Back off to a rune boundary so truncation never splits a
	// multi-byte character.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
