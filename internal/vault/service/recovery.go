package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
	"github.com/aussiebroadwan/vault/internal/vault/store"
	"github.com/aussiebroadwan/vault/pkg/backupcode"
	"github.com/aussiebroadwan/vault/pkg/cryptox"
	"github.com/aussiebroadwan/vault/pkg/mailx"
	"github.com/aussiebroadwan/vault/pkg/otpx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
)

const (
	// DefaultResetTTL is how long an emailed reset OTP stays valid.
	DefaultResetTTL = 10 * time.Minute

	resetOTPDigits = 6
)

// RecoveryService resets forgotten passwords, either with a second factor
// (authenticator code or backup code) or with an OTP sent by email.
type RecoveryService struct {
	Store    store.Store
	Activity *ActivityService
	Mailer   mailx.Sender
	Issuer   string
	Window   uint
	ResetTTL time.Duration
	Clock    Clock
}

// CheckEnabled reports whether the account behind email can recover with
// its authenticator. Unknown emails return ErrAccountNotFound.
func (s *RecoveryService) CheckEnabled(ctx context.Context, email string) (bool, error) {
	if NormalizeEmail(email) == "" {
		return false, invalid("Please provide an email")
	}

	acct, err := s.accountByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return acct.AuthenticatorEnabled(), nil
}

// ResetWithAuthenticator sets a new password once otp matches the account's
// enabled authenticator.
func (s *RecoveryService) ResetWithAuthenticator(ctx context.Context, email, otp, newPassword string) error {
	if NormalizeEmail(email) == "" || otp == "" || newPassword == "" {
		return invalid("Please provide email, OTP and new password")
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}
	if err := validateCodeFormat(otp); err != nil {
		return err
	}

	acct, err := s.accountByEmail(ctx, email)
	if err != nil {
		return err
	}
	enabled, ok := acct.Authenticator.(domain.Enabled)
	if !ok {
		return ErrNotEnabled
	}

	now := s.Clock.Now()
	if !otpx.VerifyAt(enabled.Secret, otp, s.Window, now) {
		slogx.FromContext(ctx).Warn("recovery authenticator code rejected", "account_id", acct.ID)
		return ErrInvalidCode
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return setPassword(ctx, tx, acct.ID, hash, now)
	})
	if err != nil {
		return err
	}

	s.Activity.Record(ctx, acct.ID, domain.ActionPasswordChange, "Password reset using authenticator")
	return nil
}

// ResetWithBackupCode consumes code and sets a new password in one
// transaction. Every failure to match a code, whether malformed, unknown or
// already used, is ErrInvalidBackupCode.
func (s *RecoveryService) ResetWithBackupCode(ctx context.Context, email, code, newPassword string) error {
	if NormalizeEmail(email) == "" || code == "" || newPassword == "" {
		return invalid("Please provide email, backup code and new password")
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	acct, err := s.accountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !acct.AuthenticatorEnabled() {
		return ErrNotEnabled
	}

	code = backupcode.Normalize(code)
	if !backupcode.IsFormat(code) {
		slogx.FromContext(ctx).Warn("recovery backup code rejected", "account_id", acct.ID)
		return ErrInvalidBackupCode
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Clock.Now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().ConsumeBackupCode(ctx, acct.ID, code, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidBackupCode
			}
			return fmt.Errorf("failed to consume backup code: %w", err)
		}
		return setPassword(ctx, tx, acct.ID, hash, now)
	})
	if errors.Is(err, ErrInvalidBackupCode) {
		slogx.FromContext(ctx).Warn("recovery backup code rejected", "account_id", acct.ID)
	}
	if err != nil {
		return err
	}

	s.Activity.Record(ctx, acct.ID, domain.ActionBackupCodeUsed, "Backup code used for password reset")
	s.Activity.Record(ctx, acct.ID, domain.ActionPasswordChange, "Password reset using backup code")
	return nil
}

// ForgotPassword emails a numeric OTP to the account owner. A pending reset
// is replaced; if the email cannot be sent the reset is discarded.
func (s *RecoveryService) ForgotPassword(ctx context.Context, email string) error {
	if NormalizeEmail(email) == "" {
		return invalid("Please provide an email")
	}

	acct, err := s.accountByEmail(ctx, email)
	if err != nil {
		return err
	}

	otp, err := cryptox.GenerateDigits(resetOTPDigits)
	if err != nil {
		return fmt.Errorf("failed to generate reset OTP: %w", err)
	}

	now := s.Clock.Now()
	ttl := s.resetTTL()
	reset := domain.PasswordReset{
		AccountID: acct.ID,
		OTPHash:   cryptox.FingerprintToken(otp),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.Store.PasswordResets().UpsertPasswordReset(ctx, reset); err != nil {
		return fmt.Errorf("failed to store password reset: %w", err)
	}

	msg, err := mailx.PasswordReset(acct.Email, mailx.ResetVars{
		Issuer: s.Issuer,
		Name:   acct.Name,
		Code:   otp,
		TTL:    formatTTL(ttl),
	})
	if err == nil {
		err = s.Mailer.Send(ctx, msg)
	}
	if err != nil {
		if derr := s.Store.PasswordResets().DeletePasswordReset(ctx, acct.ID); derr != nil {
			slogx.FromContext(ctx).Error("failed to clear password reset", "account_id", acct.ID, "err", derr)
		}
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// ResetWithEmailOTP sets a new password using the OTP from ForgotPassword.
// Unknown emails, wrong codes and expired codes all give ErrInvalidResetOTP.
func (s *RecoveryService) ResetWithEmailOTP(ctx context.Context, email, otp, newPassword string) error {
	if NormalizeEmail(email) == "" || otp == "" || newPassword == "" {
		return invalid("Please provide email, OTP and new password")
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	acct, err := s.accountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return ErrInvalidResetOTP
	}
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Clock.Now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		reset, err := tx.PasswordResets().GetPasswordReset(ctx, acct.ID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetOTP
		}
		if err != nil {
			return fmt.Errorf("failed to load password reset: %w", err)
		}

		sum := cryptox.FingerprintToken(otp)
		if reset.Expired(now) || subtle.ConstantTimeCompare([]byte(sum), []byte(reset.OTPHash)) != 1 {
			return ErrInvalidResetOTP
		}
		return setPassword(ctx, tx, acct.ID, hash, now)
	})
	if err != nil {
		return err
	}

	s.Activity.Record(ctx, acct.ID, domain.ActionPasswordChange, "Password reset using email OTP")
	return nil
}

// setPassword stores hash and drops any pending email reset.
func setPassword(ctx context.Context, tx store.Tx, accountID, hash string, now time.Time) error {
	if err := tx.Accounts().UpdatePasswordHash(ctx, accountID, hash, now); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := tx.PasswordResets().DeletePasswordReset(ctx, accountID); err != nil {
		return fmt.Errorf("failed to clear password reset: %w", err)
	}
	return nil
}

func (s *RecoveryService) accountByEmail(ctx context.Context, email string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetAccountByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to load account: %w", err)
	}
	return acct, nil
}

func (s *RecoveryService) resetTTL() time.Duration {
	if s.ResetTTL <= 0 {
		return DefaultResetTTL
	}
	return s.ResetTTL
}

func formatTTL(d time.Duration) string {
	switch {
	case d == time.Minute:
		return "1 minute"
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
