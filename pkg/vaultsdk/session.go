package vaultsdk

import (
	"context"
	"net/http"
)

// Session carries a bearer token explicitly on every call. Tokens are not
// refreshed; log in again once one expires.
type Session struct {
	client *Client
	token  string
}

// NewSession wraps an existing token, e.g. one kept by the caller between
// runs.
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.token }

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	return s.client.do(ctx, method, path, s.token, body, out, http.StatusOK)
}

// Profile returns the signed-in account.
func (s *Session) Profile(ctx context.Context) (*User, error) {
	var out ProfileResponse
	if err := s.do(ctx, http.MethodGet, "/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile renames the signed-in account.
func (s *Session) UpdateProfile(ctx context.Context, name string) (*User, error) {
	var out UpdateProfileResponse
	if err := s.do(ctx, http.MethodPut, "/user/profile", UpdateProfileRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword replaces the password. The current token stays valid.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return s.do(ctx, http.MethodPut, "/user/change-password", ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	}, nil)
}

// Activity returns the most recent activity entries, newest first.
func (s *Session) Activity(ctx context.Context) ([]Activity, error) {
	var out ActivityResponse
	if err := s.do(ctx, http.MethodGet, "/user/activity", nil, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

// EnableAuthenticator starts enrollment. The returned secret stays pending
// until VerifyAuthenticator succeeds.
func (s *Session) EnableAuthenticator(ctx context.Context) (*EnableAuthenticatorResponse, error) {
	var out EnableAuthenticatorResponse
	if err := s.do(ctx, http.MethodPost, "/auth/authenticator/enable", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyAuthenticator confirms the pending secret and returns the first set
// of backup codes.
func (s *Session) VerifyAuthenticator(ctx context.Context, otp string) ([]string, error) {
	var out IssuedBackupCodesResponse
	if err := s.do(ctx, http.MethodPost, "/auth/authenticator/verify", OTPRequest{OTP: otp}, &out); err != nil {
		return nil, err
	}
	return out.BackupCodes, nil
}

// DisableAuthenticator turns the authenticator off and discards all backup
// codes.
func (s *Session) DisableAuthenticator(ctx context.Context, otp string) error {
	return s.do(ctx, http.MethodPost, "/auth/authenticator/disable", OTPRequest{OTP: otp}, nil)
}

// BackupCodes lists the unused backup codes.
func (s *Session) BackupCodes(ctx context.Context) (*BackupCodesResponse, error) {
	var out BackupCodesResponse
	if err := s.do(ctx, http.MethodGet, "/auth/authenticator/backup-codes", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegenerateBackupCodes replaces every backup code with a fresh set.
func (s *Session) RegenerateBackupCodes(ctx context.Context, otp string) ([]string, error) {
	var out IssuedBackupCodesResponse
	if err := s.do(ctx, http.MethodPost, "/auth/authenticator/regenerate-backup-codes", OTPRequest{OTP: otp}, &out); err != nil {
		return nil, err
	}
	return out.BackupCodes, nil
}
