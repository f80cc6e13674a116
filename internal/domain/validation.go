package domain

import (
	"regexp"
	"strings"
	"unicode"

	"vocab-learning/internal/apperr"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return apperr.Validation("Username must be 3-50 characters long and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.Validation("Invalid email format")
	}
	return nil
}

// ValidatePassword enforces the password strength rules. The first failing rule is reported.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperr.Validation("Password must be at least 8 characters long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	switch {
	case !upper:
		return apperr.Validation("Password must contain at least one uppercase letter")
	case !lower:
		return apperr.Validation("Password must contain at least one lowercase letter")
	case !digit:
		return apperr.Validation("Password must contain at least one number")
	case !special:
		return apperr.Validation("Password must contain at least one special character")
	}
	return nil
}
