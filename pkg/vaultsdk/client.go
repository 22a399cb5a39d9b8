package vaultsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the public endpoints and opens Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client with a 10s request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns a Session for it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, *AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &out, http.StatusCreated); err != nil {
		return nil, nil, err
	}
	return c.NewSession(out.Token), &out, nil
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, *AuthResponse, error) {
	var out AuthResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &out, http.StatusOK); err != nil {
		return nil, nil, err
	}
	return c.NewSession(out.Token), &out, nil
}

// CheckAuthenticator reports whether the account behind email can recover
// with an authenticator or backup code.
func (c *Client) CheckAuthenticator(ctx context.Context, email string) (bool, error) {
	var out CheckAuthenticatorResponse
	path := "/auth/check-authenticator/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.IsAuthenticatorEnabled, nil
}

// ResetPasswordWithAuthenticator sets a new password after checking a TOTP
// code from the account's authenticator.
func (c *Client) ResetPasswordWithAuthenticator(ctx context.Context, req ResetWithAuthenticatorRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password-authenticator", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPasswordWithBackupCode sets a new password, spending one backup code.
func (c *Client) ResetPasswordWithBackupCode(ctx context.Context, req ResetWithBackupCodeRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password-backup-code", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the server to email a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	req := ForgotPasswordRequest{Email: email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword completes the emailed-code flow.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
