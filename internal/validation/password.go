// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 8
	passwordMaxLen = 128
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen {
		return fmt.Errorf("password must be at least %d characters long", passwordMinLen)
	}

	// bcrypt ignores anything past 72 bytes; cap well above that but not unbounded
	if len(password) > passwordMaxLen {
		return fmt.Errorf("password must not exceed %d characters", passwordMaxLen)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < usernameMinLen {
		return fmt.Errorf("username must be at least %d characters long", usernameMinLen)
	}

	if len(username) > usernameMaxLen {
		return fmt.Errorf("username must not exceed %d characters", usernameMaxLen)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}

	return nil
}

// ValidateMaxLen checks a free-text field against its character limit.
func ValidateMaxLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must not exceed %d characters", field, max)
	}
	return nil
}

// Sanitize trims surrounding whitespace and escapes HTML in user-supplied text.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// CleanText trims value, checks it against max characters as typed, then escapes it.
func CleanText(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if err := ValidateMaxLen(field, trimmed, max); err != nil {
		return "", err
	}
	return Sanitize(trimmed), nil
}
