package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Account verification errors
	ErrNotVerified     = errors.New("account is not verified")
	ErrAlreadyVerified = errors.New("account is already verified")

	// Practice log errors
	ErrEntryExists = errors.New("sadhana entry already exists for this date")

	// Dependency errors
	ErrEmailDelivery = errors.New("failed to deliver email")
)
