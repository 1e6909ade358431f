// Package validation holds input format rules shared by services.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 12
	MaxPasswordLength = 128
	MaxEmailLength    = 254
	MaxSlugLength     = 120
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9_-]{1,28})[a-zA-Z0-9]$`)
	emailRegex    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]{1,64}@[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)+$`)
	slugRegex     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ValidatePassword requires 12-128 characters with upper, lower, digit and symbol.
func ValidatePassword(password string) error {
	n := len([]rune(password))
	if n < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
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
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return errors.New("password must contain upper and lower case letters, a digit and a symbol")
	}
	return nil
}

// ValidateUsername allows 3-30 letters, digits, '_' and '-', starting and ending alphanumeric.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return errors.New("username must be 3-30 characters of letters, numbers, '_' or '-', and start and end with a letter or number")
	}
	return nil
}

func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidateSlug checks the lower-case hyphenated slug format.
func ValidateSlug(slug string) error {
	if len(slug) > MaxSlugLength || !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be lower-case letters and numbers separated by single hyphens (max %d characters)", MaxSlugLength)
	}
	return nil
}

// Slugify derives a slug from a title. It returns "" when title has no ASCII letters or digits.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := b.String()
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}
