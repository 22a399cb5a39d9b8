package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	ID            string
	Name          string
	Email         string // trimmed, lower-cased, unique
	PasswordHash  string // argon2 encoded
	Role          string
	Authenticator AuthenticatorState
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AuthenticatorEnabled reports whether a verified TOTP secret is active.
func (a Account) AuthenticatorEnabled() bool {
	_, ok := a.Authenticator.(Enabled)
	return ok
}
