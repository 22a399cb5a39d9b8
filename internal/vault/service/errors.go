package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCode        = errors.New("invalid OTP")
	ErrNotEnabled         = errors.New("authenticator not enabled")
	ErrNotEnrolled        = fmt.Errorf("%w: no pending secret", ErrNotEnabled)
	ErrAlreadyEnabled     = errors.New("authenticator already enabled")
	ErrInvalidBackupCode  = errors.New("invalid or already used backup code")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidResetOTP    = errors.New("invalid or expired reset OTP")
	ErrMailDelivery       = errors.New("reset email could not be sent")
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 6

// ValidationError carries a message that is safe to show the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func validateNewPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("Password must be at least 6 characters")
	}
	return nil
}

// NormalizeEmail trims and lower-cases email, the form accounts are stored
// and looked up by.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Clock returns the current time. A nil Clock means time.Now.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
