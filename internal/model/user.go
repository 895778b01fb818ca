package model

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// User is a registered account. Items and notes reference users by email.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// ValidatePassword enforces the registration password policy: at least six
// characters with at least one uppercase and one lowercase letter.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return errors.New("password must be at least 6 characters long")
	}
	if len(password) > maxPasswordBytes {
		return errors.New("password must be at most 72 bytes long")
	}

	var upper, lower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	if !upper {
		return errors.New("password must contain an uppercase letter")
	}
	if !lower {
		return errors.New("password must contain a lowercase letter")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address so that lookups and
// ownership checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
