package models

import (
	"time"
)

// Role values, in ascending order of privilege
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

type User struct {
	ID           string
	Username     string // Unique, stored lowercase
	Email        string // Unique
	FirstName    string
	LastName     string
	Hostel       string
	PasswordHash string // Set only through the bcrypt hashing path
	Role         string // "user", "admin", "superadmin"
	IsVerified   bool

	// VerificationToken holds the currently pending email-verification
	// token; empty once the account is verified.
	VerificationToken string

	// ResetPasswordToken stores a SHA-256 hash of the reset token, never
	// the raw value. Set and cleared together with ResetPasswordExpires.
	ResetPasswordToken   string
	ResetPasswordExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
