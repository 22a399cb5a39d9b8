package vaultsdk

import "time"

// ============================================================================
// Accounts
// ============================================================================

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is an account as the API exposes it. Secrets never leave the server.
type User struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Role                   string    `json:"role"`
	IsAuthenticatorEnabled bool      `json:"isAuthenticatorEnabled"`
	CreatedAt              time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ProfileResponse is returned by GET /user/profile.
type ProfileResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// UpdateProfileRequest is the body of PUT /user/profile.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfileResponse is returned by PUT /user/profile.
type UpdateProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    User   `json:"user"`
}

// ChangePasswordRequest is the body of PUT /user/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Activity is one entry of the account activity log.
type Activity struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	IP          string    `json:"ip,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ActivityResponse is returned by GET /user/activity, newest first.
type ActivityResponse struct {
	Success    bool       `json:"success"`
	Activities []Activity `json:"activities"`
}

// ============================================================================
// Authenticator
// ============================================================================

// EnableAuthenticatorResponse carries the pending secret. ManualEntryKey is
// the same secret, for apps that cannot scan the QR code.
type EnableAuthenticatorResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	QRCode         string `json:"qrCode"`
	Secret         string `json:"secret"`
	ManualEntryKey string `json:"manualEntryKey"`
}

// OTPRequest is the body of verify, disable and regenerate.
type OTPRequest struct {
	OTP string `json:"otp"`
}

// IssuedBackupCodesResponse is returned when a fresh set of codes is issued.
type IssuedBackupCodesResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	BackupCodes []string `json:"backupCodes"`
}

// BackupCodesResponse lists the unused codes with counts for the full set.
type BackupCodesResponse struct {
	Success     bool     `json:"success"`
	BackupCodes []string `json:"backupCodes"`
	Total       int      `json:"total"`
	Used        int      `json:"used"`
}

// ============================================================================
// Recovery
// ============================================================================

// CheckAuthenticatorResponse is returned by GET /auth/check-authenticator/{email}.
type CheckAuthenticatorResponse struct {
	Success                bool `json:"success"`
	IsAuthenticatorEnabled bool `json:"isAuthenticatorEnabled"`
}

// ResetWithAuthenticatorRequest is the body of POST /auth/reset-password-authenticator.
type ResetWithAuthenticatorRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetWithBackupCodeRequest is the body of POST /auth/reset-password-backup-code.
type ResetWithBackupCodeRequest struct {
	Email       string `json:"email"`
	BackupCode  string `json:"backupCode"`
	NewPassword string `json:"newPassword"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password, completing
// the emailed-code flow.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse is returned by operations with nothing else to report.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
