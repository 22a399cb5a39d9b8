package domain

import (
	"errors"
	"time"
)

// ErrInvalidAuthenticatorState is returned when persisted columns describe
// an enabled authenticator without a secret.
var ErrInvalidAuthenticatorState = errors.New("domain: enabled authenticator without secret")

// AuthenticatorState is one of Disabled, Pending or Enabled.
//
//	Disabled --enable--> Pending --verify--> Enabled --disable--> Disabled
//
// Pending may be re-entered by enable, which replaces the secret.
type AuthenticatorState interface {
	isAuthenticatorState()
}

type Disabled struct{}

// Pending holds a secret that has been shown to the user but not yet
// confirmed with a code.
type Pending struct {
	Secret string // base32
}

type Enabled struct {
	Secret    string // base32
	EnabledAt time.Time
}

func (Disabled) isAuthenticatorState() {}
func (Pending) isAuthenticatorState()  {}
func (Enabled) isAuthenticatorState()  {}

// AuthenticatorFromColumns rebuilds the state from its nullable storage
// columns.
func AuthenticatorFromColumns(secret *string, enabledAt *time.Time) (AuthenticatorState, error) {
	switch {
	case secret == nil || *secret == "":
		if enabledAt != nil {
			return nil, ErrInvalidAuthenticatorState
		}
		return Disabled{}, nil
	case enabledAt == nil:
		return Pending{Secret: *secret}, nil
	default:
		return Enabled{Secret: *secret, EnabledAt: *enabledAt}, nil
	}
}

// AuthenticatorColumns is the inverse of AuthenticatorFromColumns.
func AuthenticatorColumns(s AuthenticatorState) (secret *string, enabledAt *time.Time) {
	switch st := s.(type) {
	case Pending:
		return &st.Secret, nil
	case Enabled:
		return &st.Secret, &st.EnabledAt
	default:
		return nil, nil
	}
}
