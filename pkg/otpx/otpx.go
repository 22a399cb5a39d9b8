// Package otpx wraps pquerna/otp with the fixed TOTP parameters used by the
// vault: SHA1, 6 digits, 30 second steps.
package otpx

import (
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Period is the TOTP time step in seconds.
	Period = 30

	// SecretSize is the number of random bytes behind a secret (160 bits).
	SecretSize = 20

	// DefaultWindow accepts codes from one step either side of now.
	DefaultWindow uint = 1

	codeLength = 6
)

var ErrEmptyLabel = errors.New("otpx: account label and issuer are required")

// Enrollment is a freshly generated shared secret and the otpauth:// URI
// an authenticator app scans to import it.
type Enrollment struct {
	Secret string // base32, no padding
	URI    string
}

// GenerateSecret creates a random secret for accountLabel under issuer.
func GenerateSecret(accountLabel, issuer string) (Enrollment, error) {
	if accountLabel == "" || issuer == "" {
		return Enrollment{}, ErrEmptyLabel
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountLabel,
		Period:      Period,
		SecretSize:  SecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("otpx: generate key: %w", err)
	}

	return Enrollment{Secret: key.Secret(), URI: key.URL()}, nil
}

// Verify reports whether code is valid for secret at the current time.
func Verify(secret, code string, window uint) bool {
	return VerifyAt(secret, code, window, time.Now())
}

// VerifyAt reports whether code matches any counter in
// [step(t)-window, step(t)+window]. Malformed codes and undecodable
// secrets return false.
func VerifyAt(secret, code string, window uint, t time.Time) bool {
	if secret == "" || !IsCodeFormat(code) {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, t.UTC(), totp.ValidateOpts{
		Period:    Period,
		Skew:      window,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

// GenerateCode returns the code for secret at t. Used by clients and tests
// that need to act as an authenticator app.
func GenerateCode(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t.UTC(), totp.ValidateOpts{
		Period:    Period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// IsCodeFormat reports whether code is exactly six ASCII digits.
func IsCodeFormat(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for i := range len(code) {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
