package domain

import "time"

// PasswordReset is a pending email OTP reset. At most one exists per
// account; the OTP itself is only kept as a fingerprint.
type PasswordReset struct {
	AccountID string
	OTPHash   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (r PasswordReset) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
