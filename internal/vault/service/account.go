package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
	"github.com/aussiebroadwan/vault/internal/vault/store"
	"github.com/aussiebroadwan/vault/pkg/cryptox"
	"github.com/aussiebroadwan/vault/pkg/idx"
	"github.com/aussiebroadwan/vault/pkg/jwtx"
)

// AccountService signs accounts up and in, and changes their name or password.
type AccountService struct {
	Store    store.Store
	Activity *ActivityService
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
	Clock    Clock
}

// verifyPassword is replaced in tests.
var verifyPassword = cryptox.VerifyPassword

// decoyHash stands in for the stored hash when the email is unknown, so
// both login failures cost one argon2 verification.
var decoyHash = sync.OnceValues(func() (string, error) {
	return cryptox.HashPassword("decoy password")
})

// Session is a freshly issued bearer token and the account it belongs to.
type Session struct {
	Token   string
	Account domain.Account
}

// Register creates a user account and signs it in.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return Session{}, invalid("Please provide name, email and password")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, invalid("Please provide a valid email")
	}
	if err := validateNewPassword(password); err != nil {
		return Session{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Clock.Now()
	acct := domain.Account{
		ID:            idx.NewAt(now).String(),
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          domain.RoleUser,
		Authenticator: domain.Disabled{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.Activity.Record(ctx, acct.ID, domain.ActionRegister, "Account created")
	return s.issue(acct, now)
}

// Login checks the password and signs the account in. Unknown emails and
// wrong passwords both give ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, invalid("Please provide email and password")
	}

	acct, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		if hash, err := decoyHash(); err == nil {
			_ = verifyPassword(password, hash)
		}
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load account: %w", err)
	}

	if err := verifyPassword(password, acct.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("failed to verify password: %w", err)
	}

	s.Activity.Record(ctx, acct.ID, domain.ActionLogin, "Logged in")
	return s.issue(acct, s.Clock.Now())
}

// Profile returns the account for accountID.
func (s *AccountService) Profile(ctx context.Context, accountID string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to load account: %w", err)
	}
	return acct, nil
}

// ChangePassword replaces the password of a signed-in account after checking
// the current one. A wrong current password gives ErrWrongPassword.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return invalid("Please provide old password and new password")
	}
	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return invalid("New password must be at least 6 characters")
	}

	acct, err := s.Profile(ctx, accountID)
	if err != nil {
		return err
	}

	if err := verifyPassword(oldPassword, acct.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrWrongPassword
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.Store.Accounts().UpdatePasswordHash(ctx, acct.ID, hash, s.Clock.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.Activity.Record(ctx, acct.ID, domain.ActionPasswordChange, "Password changed")
	return nil
}

// UpdateProfile renames the account and returns it as stored.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID, name string) (domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Account{}, invalid("Please provide a name")
	}

	now := s.Clock.Now()
	if err := s.Store.Accounts().UpdateName(ctx, accountID, name, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("failed to update profile: %w", err)
	}

	s.Activity.Record(ctx, accountID, domain.ActionProfileUpdate, "Profile updated")
	return s.Profile(ctx, accountID)
}

func (s *AccountService) issue(acct domain.Account, now time.Time) (Session, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(acct.ID, acct.Email, acct.Role, s.Issuer, ttl, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Session{Token: token, Account: acct}, nil
}
