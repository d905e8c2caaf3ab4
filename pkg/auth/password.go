package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost      = 12 // Deliberately slow adaptive hash
	ResetTokenBytes = 32 // 256 bits of entropy for reset tokens
	MinPasswordLen  = 6
	MaxPasswordLen  = 128
)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// GenerateResetToken creates a random password-reset token. The plain token
// goes into the reset email; only its SHA-256 hash is ever persisted, so an
// intercepted database row or log line reveals nothing usable.
func GenerateResetToken() (plain string, hash string, err error) {
	bytes := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	plain = hex.EncodeToString(bytes)
	return plain, HashResetToken(plain), nil
}

// HashResetToken returns the hex-encoded SHA-256 digest of a plain reset
// token, the form in which reset tokens are stored and compared.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword enforces the registration password policy: length bounds
// plus at least one uppercase letter, one lowercase letter, one digit and
// one special character.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters long", MaxPasswordLen)
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return fmt.Errorf("password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}

	return nil
}
