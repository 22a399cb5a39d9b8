package service

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
	"github.com/aussiebroadwan/vault/internal/vault/store"
	"github.com/stretchr/testify/require"
)

func TestCheckEnabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")

	ok, err := f.recovery.CheckEnabled(ctx, "alice@example.com")
	require.NoError(t, err)
	require.False(t, ok)

	f.enable(t, acct.ID)

	ok, err = f.recovery.CheckEnabled(ctx, "  Alice@Example.com ")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.recovery.CheckEnabled(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = f.recovery.CheckEnabled(ctx, " ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestResetWithBackupCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")
	_, codes := f.enable(t, acct.ID)

	require.NoError(t, f.recovery.ResetWithBackupCode(ctx, acct.Email, codes[0], "brand-new"))

	// New password works, old one does not
	_, err := f.accounts.Login(ctx, acct.Email, "brand-new")
	require.NoError(t, err)
	_, err = f.accounts.Login(ctx, acct.Email, "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// The consumed code is gone for good
	require.ErrorIs(t, f.recovery.ResetWithBackupCode(ctx, acct.Email, codes[0], "another1"), ErrInvalidBackupCode)

	// The other nine still work, in any case
	for i, code := range codes[1:] {
		pw := "password-" + string(rune('a'+i))
		require.NoError(t, f.recovery.ResetWithBackupCode(ctx, acct.Email, strings.ToLower(code), pw), "code %d", i+1)
	}

	sum, err := f.auth.BackupCodes(ctx, acct.ID)
	require.NoError(t, err)
	require.Empty(t, sum.Unused)
	require.Equal(t, 10, sum.Used)
}

func TestResetWithBackupCode_FailuresLookTheSame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")
	_, codes := f.enable(t, acct.ID)

	require.NoError(t, f.recovery.ResetWithBackupCode(ctx, acct.Email, codes[0], "brand-new"))

	unknown := "00000000"
	if slices.Contains(codes, unknown) {
		unknown = "FFFFFFFF"
	}

	for _, code := range []string{codes[0], "ZZZZZZZZ", "1234", unknown} {
		err := f.recovery.ResetWithBackupCode(ctx, acct.Email, code, "another1")
		require.ErrorIs(t, err, ErrInvalidBackupCode, "code %q", code)
		require.Equal(t, ErrInvalidBackupCode.Error(), err.Error())
	}

	// A failed attempt does not change the password
	_, err := f.accounts.Login(ctx, acct.Email, "brand-new")
	require.NoError(t, err)
}

func TestResetWithBackupCode_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")
	_, codes := f.enable(t, acct.ID)

	err := f.recovery.ResetWithBackupCode(ctx, acct.Email, codes[0], "short")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "Password must be at least 6 characters", verr.Message)

	require.ErrorIs(t, f.recovery.ResetWithBackupCode(ctx, "", codes[0], "long-enough"), ErrValidation)
	require.ErrorIs(t, f.recovery.ResetWithBackupCode(ctx, acct.Email, "", "long-enough"), ErrValidation)
	require.ErrorIs(t, f.recovery.ResetWithBackupCode(ctx, "nobody@example.com", codes[0], "long-enough"), ErrAccountNotFound)

	// The short password attempt did not spend the code
	sum, err := f.auth.BackupCodes(ctx, acct.ID)
	require.NoError(t, err)
	require.Zero(t, sum.Used)
}

func TestResetWithAuthenticator(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")
	secret, _ := f.enable(t, acct.ID)

	require.ErrorIs(t, f.recovery.ResetWithAuthenticator(ctx, acct.Email, f.wrongCode(t, secret), "brand-new"), ErrInvalidCode)
	require.ErrorIs(t, f.recovery.ResetWithAuthenticator(ctx, acct.Email, f.code(t, secret, f.now), "short"), ErrValidation)
	require.ErrorIs(t, f.recovery.ResetWithAuthenticator(ctx, acct.Email, "12345", "brand-new"), ErrValidation)
	require.ErrorIs(t, f.recovery.ResetWithAuthenticator(ctx, "nobody@example.com", "abc123", "brand-new"), ErrValidation)

	require.NoError(t, f.recovery.ResetWithAuthenticator(ctx, acct.Email, f.code(t, secret, f.now), "brand-new"))

	_, err := f.accounts.Login(ctx, acct.Email, "brand-new")
	require.NoError(t, err)
}

func TestResetWithAuthenticator_NotEnabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")

	require.ErrorIs(t, f.recovery.ResetWithAuthenticator(ctx, acct.Email, "123456", "brand-new"), ErrNotEnabled)

	// Pending secrets are not good enough, even with a valid code
	enr, err := f.auth.Enable(ctx, acct.ID)
	require.NoError(t, err)
	require.ErrorIs(t, f.recovery.ResetWithAuthenticator(ctx, acct.Email, f.code(t, enr.Secret, f.now), "brand-new"), ErrNotEnabled)

	_, err = f.accounts.Login(ctx, acct.Email, "hunter22")
	require.NoError(t, err)
}

func TestResetWithAuthenticator_ClearsEmailReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")
	secret, _ := f.enable(t, acct.ID)

	require.NoError(t, f.recovery.ForgotPassword(ctx, acct.Email))
	require.NoError(t, f.recovery.ResetWithAuthenticator(ctx, acct.Email, f.code(t, secret, f.now), "brand-new"))

	_, err := f.store.PasswordResets().GetPasswordReset(ctx, acct.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

var resetCodeRe = regexp.MustCompile(`reset code is (\d{6})`)

func (f *fixture) lastResetCode(t *testing.T) string {
	t.Helper()
	msg, ok := f.mail.Last()
	require.True(t, ok, "no email sent")
	m := resetCodeRe.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, "no code in %q", msg.Text)
	return m[1]
}

func TestForgotPassword_ResetWithEmailOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")

	require.NoError(t, f.recovery.ForgotPassword(ctx, "ALICE@example.com"))

	msg, ok := f.mail.Last()
	require.True(t, ok)
	require.Equal(t, acct.Email, msg.To)
	require.Contains(t, msg.Text, "10 minutes")
	otp := f.lastResetCode(t)

	wrong := "000000"
	if otp == wrong {
		wrong = "111111"
	}
	require.ErrorIs(t, f.recovery.ResetWithEmailOTP(ctx, acct.Email, wrong, "brand-new"), ErrInvalidResetOTP)
	require.NoError(t, f.recovery.ResetWithEmailOTP(ctx, acct.Email, otp, "brand-new"))

	// Single use
	require.ErrorIs(t, f.recovery.ResetWithEmailOTP(ctx, acct.Email, otp, "again-new"), ErrInvalidResetOTP)

	_, err := f.accounts.Login(ctx, acct.Email, "brand-new")
	require.NoError(t, err)
}

func TestResetWithEmailOTP_Expired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")

	require.NoError(t, f.recovery.ForgotPassword(ctx, acct.Email))
	otp := f.lastResetCode(t)

	f.now = f.now.Add(10 * time.Minute)
	require.ErrorIs(t, f.recovery.ResetWithEmailOTP(ctx, acct.Email, otp, "brand-new"), ErrInvalidResetOTP)
}

func TestResetWithEmailOTP_UnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := f.recovery.ResetWithEmailOTP(context.Background(), "nobody@example.com", "123456", "brand-new")
	require.ErrorIs(t, err, ErrInvalidResetOTP)
}

func TestForgotPassword_LatestCodeWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")

	require.NoError(t, f.recovery.ForgotPassword(ctx, acct.Email))
	first := f.lastResetCode(t)
	require.NoError(t, f.recovery.ForgotPassword(ctx, acct.Email))
	second := f.lastResetCode(t)

	if first != second {
		require.ErrorIs(t, f.recovery.ResetWithEmailOTP(ctx, acct.Email, first, "brand-new"), ErrInvalidResetOTP)
	}
	require.NoError(t, f.recovery.ResetWithEmailOTP(ctx, acct.Email, second, "brand-new"))
}

func TestForgotPassword_MailFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")

	f.mail.Err = errors.New("relay down")
	err := f.recovery.ForgotPassword(ctx, acct.Email)
	require.ErrorIs(t, err, ErrMailDelivery)

	_, err = f.store.PasswordResets().GetPasswordReset(ctx, acct.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.recovery.ForgotPassword(context.Background(), "nobody@example.com"), ErrAccountNotFound)
	require.ErrorIs(t, f.recovery.ForgotPassword(context.Background(), ""), ErrValidation)
	require.Empty(t, f.mail.Sent())
}

func TestRecovery_RecordsActivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acct := f.register(t, "alice@example.com")
	_, codes := f.enable(t, acct.ID)

	f.now = f.now.Add(time.Minute)
	require.NoError(t, f.recovery.ResetWithBackupCode(ctx, acct.Email, codes[0], "brand-new"))

	entries, err := f.activity.Recent(ctx, acct.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 2)
	require.Equal(t, domain.ActionPasswordChange, entries[0].Action)
	require.Equal(t, domain.ActionBackupCodeUsed, entries[1].Action)
}
