package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
	"github.com/aussiebroadwan/vault/internal/vault/store"
	"github.com/aussiebroadwan/vault/pkg/backupcode"
	"github.com/aussiebroadwan/vault/pkg/otpx"
	"github.com/aussiebroadwan/vault/pkg/qrx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
)

// AuthenticatorService drives the TOTP authenticator of an account through
// Disabled, Pending and Enabled.
type AuthenticatorService struct {
	Store    store.Store
	Activity *ActivityService
	Issuer   string // shown in authenticator apps, e.g. "My Vault"
	Window   uint   // accepted steps either side of now
	QRSize   int    // QR image size in pixels
	Clock    Clock
}

// Enrollment is returned by Enable. Secret doubles as the manual entry key.
type Enrollment struct {
	Secret string
	URI    string
	QRCode string // data:image/png;base64,...
}

// Enable generates a new secret and stores it as pending. Calling it again
// before Verify replaces the pending secret.
func (s *AuthenticatorService) Enable(ctx context.Context, accountID string) (Enrollment, error) {
	acct, err := s.account(ctx, accountID)
	if err != nil {
		return Enrollment{}, err
	}
	if acct.AuthenticatorEnabled() {
		return Enrollment{}, ErrAlreadyEnabled
	}

	enr, err := otpx.GenerateSecret(acct.Email, s.Issuer)
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	qr, err := qrx.DataURI(enr.URI, s.qrSize())
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to render QR code: %w", err)
	}

	err = s.Store.Accounts().SetPendingAuthenticator(ctx, accountID, enr.Secret, s.Clock.Now())
	if errors.Is(err, store.ErrNotFound) {
		// Enabled between the read and the write
		return Enrollment{}, ErrAlreadyEnabled
	}
	if err != nil {
		return Enrollment{}, fmt.Errorf("failed to store pending secret: %w", err)
	}

	return Enrollment{Secret: enr.Secret, URI: enr.URI, QRCode: qr}, nil
}

// Verify checks code against the pending secret. On success the
// authenticator is enabled and a fresh set of backup codes is returned; this
// is the only time the full set is shown.
func (s *AuthenticatorService) Verify(ctx context.Context, accountID, code string) ([]string, error) {
	if code == "" {
		return nil, invalid("OTP is required")
	}
	if err := validateCodeFormat(code); err != nil {
		return nil, err
	}

	acct, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var pending domain.Pending
	switch st := acct.Authenticator.(type) {
	case domain.Pending:
		pending = st
	case domain.Enabled:
		return nil, ErrAlreadyEnabled
	default:
		return nil, ErrNotEnrolled
	}

	now := s.Clock.Now()
	if !otpx.VerifyAt(pending.Secret, code, s.Window, now) {
		slogx.FromContext(ctx).Warn("authenticator verify rejected", "account_id", accountID)
		return nil, ErrInvalidCode
	}

	codes, err := backupcode.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().EnableAuthenticator(ctx, accountID, pending.Secret, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// The pending secret was replaced or promoted concurrently
				return ErrInvalidCode
			}
			return fmt.Errorf("failed to enable authenticator: %w", err)
		}
		if err := tx.BackupCodes().ReplaceBackupCodes(ctx, accountID, codes, now); err != nil {
			return fmt.Errorf("failed to store backup codes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Activity.Record(ctx, accountID, domain.ActionAuthenticatorEnable, "Enabled authenticator app")
	return codes, nil
}

// Disable turns the authenticator off after checking code, removing the
// secret and every backup code together.
func (s *AuthenticatorService) Disable(ctx context.Context, accountID, code string) error {
	if code == "" {
		return invalid("OTP is required to disable authenticator")
	}
	if err := validateCodeFormat(code); err != nil {
		return err
	}

	if _, err := s.checkCode(ctx, accountID, code); err != nil {
		return err
	}

	now := s.Clock.Now()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, accountID); err != nil {
			return fmt.Errorf("failed to delete backup codes: %w", err)
		}
		if err := tx.Accounts().DisableAuthenticator(ctx, accountID, now); err != nil {
			return fmt.Errorf("failed to disable authenticator: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Activity.Record(ctx, accountID, domain.ActionAuthenticatorDisable, "Disabled authenticator app")
	return nil
}

// BackupCodes lists the unused codes of an enabled authenticator. No OTP is
// needed to view them.
func (s *AuthenticatorService) BackupCodes(ctx context.Context, accountID string) (domain.BackupCodeSummary, error) {
	acct, err := s.account(ctx, accountID)
	if err != nil {
		return domain.BackupCodeSummary{}, err
	}
	if !acct.AuthenticatorEnabled() {
		return domain.BackupCodeSummary{}, ErrNotEnabled
	}

	codes, err := s.Store.BackupCodes().ListBackupCodes(ctx, accountID)
	if err != nil {
		return domain.BackupCodeSummary{}, fmt.Errorf("failed to list backup codes: %w", err)
	}
	return domain.SummarizeBackupCodes(codes), nil
}

// RegenerateBackupCodes replaces the whole set after checking code.
func (s *AuthenticatorService) RegenerateBackupCodes(ctx context.Context, accountID, code string) ([]string, error) {
	if code == "" {
		return nil, invalid("OTP is required to regenerate backup codes")
	}
	if err := validateCodeFormat(code); err != nil {
		return nil, err
	}

	enabled, err := s.checkCode(ctx, accountID, code)
	if err != nil {
		return nil, err
	}

	codes, err := backupcode.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	now := s.Clock.Now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-read inside the tx so a concurrent disable cannot leave codes
		// behind on a disabled account.
		acct, err := tx.Accounts().GetAccountByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		cur, ok := acct.Authenticator.(domain.Enabled)
		if !ok || cur.Secret != enabled.Secret {
			return ErrNotEnabled
		}
		if err := tx.BackupCodes().ReplaceBackupCodes(ctx, accountID, codes, now); err != nil {
			return fmt.Errorf("failed to store backup codes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Activity.Record(ctx, accountID, domain.ActionBackupCodesRegenerate, "Regenerated backup codes")
	return codes, nil
}

// checkCode requires an Enabled authenticator and a matching code.
func (s *AuthenticatorService) checkCode(ctx context.Context, accountID, code string) (domain.Enabled, error) {
	acct, err := s.account(ctx, accountID)
	if err != nil {
		return domain.Enabled{}, err
	}

	enabled, ok := acct.Authenticator.(domain.Enabled)
	if !ok {
		return domain.Enabled{}, ErrNotEnabled
	}

	if !otpx.VerifyAt(enabled.Secret, code, s.Window, s.Clock.Now()) {
		slogx.FromContext(ctx).Warn("authenticator code rejected", "account_id", accountID)
		return domain.Enabled{}, ErrInvalidCode
	}
	return enabled, nil
}

func (s *AuthenticatorService) account(ctx context.Context, accountID string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to load account: %w", err)
	}
	return acct, nil
}

func (s *AuthenticatorService) qrSize() int {
	if s.QRSize <= 0 {
		return qrx.DefaultSize
	}
	return s.QRSize
}

// validateCodeFormat rejects anything that is not six digits before any
// secret is consulted.
func validateCodeFormat(code string) error {
	if !otpx.IsCodeFormat(code) {
		return invalid("OTP must be a 6-digit code")
	}
	return nil
}
