package utils

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLength = 72
)

// HashPassword generates a salted bcrypt hash.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a plaintext secret with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the length policy for account passwords.
func ValidatePassword(password string) *ServiceError {
	if len(password) < MinPasswordLength {
		return NewBadRequestError("password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		return NewBadRequestError("password must be at most 72 bytes long")
	}
	return nil
}
