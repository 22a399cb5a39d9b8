package http

import (
	"net/http"

	"github.com/aussiebroadwan/vault/internal/vault/service"
	"github.com/aussiebroadwan/vault/pkg/httpx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
	"github.com/aussiebroadwan/vault/pkg/vaultsdk"
)

// RecoveryHandler serves the public password reset endpoints.
type RecoveryHandler struct {
	RecoveryService *service.RecoveryService
}

// HandleCheck handles GET /auth/check-authenticator/{email}
//
//	@Summary		Check whether an account can recover with an authenticator
//	@Tags			Recovery
//	@Produce		json
//	@Param			email	path		string								true	"Account email"
//	@Success		200		{object}	vaultsdk.CheckAuthenticatorResponse	"Whether the authenticator is enabled"
//	@Failure		400		{object}	vaultsdk.APIError					"Missing email"
//	@Failure		404		{object}	vaultsdk.APIError					"No user found with this email"
//	@Failure		500		{object}	vaultsdk.APIError					"Internal server error"
//	@Router			/auth/check-authenticator/{email} [get].
func (h *RecoveryHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.RecoveryService.CheckEnabled(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err, apiError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.CheckAuthenticatorResponse{
		Success:                true,
		IsAuthenticatorEnabled: enabled,
	})
}

// HandleResetWithAuthenticator handles POST /auth/reset-password-authenticator
//
//	@Summary		Reset password with an authenticator code
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.ResetWithAuthenticatorRequest	true	"Email, code and new password"
//	@Success		200		{object}	vaultsdk.MessageResponse				"Password reset"
//	@Failure		400		{object}	vaultsdk.APIError						"Missing fields, short password, invalid OTP or not enabled"
//	@Failure		404		{object}	vaultsdk.APIError						"No user found with this email"
//	@Failure		500		{object}	vaultsdk.APIError						"Internal server error"
//	@Router			/auth/reset-password-authenticator [post].
func (h *RecoveryHandler) HandleResetWithAuthenticator(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.ResetWithAuthenticatorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.RecoveryService.ResetWithAuthenticator(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeError(w, r, err, recoveryError(err))
		return
	}

	slogx.FromContext(r.Context()).Info("password reset", "method", "authenticator")
	httpx.WriteJSON(w, http.StatusOK, vaultsdk.MessageResponse{
		Success: true,
		Message: "Password reset successfully using Authenticator. You can now login with your new password.",
	})
}

// HandleResetWithBackupCode handles POST /auth/reset-password-backup-code
//
//	@Summary		Reset password with a backup code
//	@Description	Spends one backup code. Unknown, malformed and already used codes get the same response.
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.ResetWithBackupCodeRequest	true	"Email, backup code and new password"
//	@Success		200		{object}	vaultsdk.MessageResponse			"Password reset"
//	@Failure		400		{object}	vaultsdk.APIError					"Missing fields, short password, invalid code or not enabled"
//	@Failure		404		{object}	vaultsdk.APIError					"No user found with this email"
//	@Failure		500		{object}	vaultsdk.APIError					"Internal server error"
//	@Router			/auth/reset-password-backup-code [post].
func (h *RecoveryHandler) HandleResetWithBackupCode(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.ResetWithBackupCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.RecoveryService.ResetWithBackupCode(r.Context(), req.Email, req.BackupCode, req.NewPassword); err != nil {
		writeError(w, r, err, recoveryError(err))
		return
	}

	slogx.FromContext(r.Context()).Info("password reset", "method", "backup_code")
	httpx.WriteJSON(w, http.StatusOK, vaultsdk.MessageResponse{
		Success: true,
		Message: "Password reset successfully using backup code. You can now login with your new password.",
	})
}

// HandleForgotPassword handles POST /auth/forgot-password
//
//	@Summary		Email a password reset code
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	vaultsdk.MessageResponse		"Code sent"
//	@Failure		400		{object}	vaultsdk.APIError				"Missing email"
//	@Failure		404		{object}	vaultsdk.APIError				"No user found with this email"
//	@Failure		500		{object}	vaultsdk.APIError				"Email could not be sent"
//	@Router			/auth/forgot-password [post].
func (h *RecoveryHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.RecoveryService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err, apiError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.MessageResponse{
		Success: true,
		Message: "OTP sent to email successfully",
	})
}

// HandleResetPassword handles POST /auth/reset-password
//
//	@Summary		Reset password with an emailed code
//	@Tags			Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.ResetPasswordRequest	true	"Email, emailed code and new password"
//	@Success		200		{object}	vaultsdk.MessageResponse		"Password reset"
//	@Failure		400		{object}	vaultsdk.APIError				"Missing fields, short password, or invalid or expired OTP"
//	@Failure		500		{object}	vaultsdk.APIError				"Internal server error"
//	@Router			/auth/reset-password [post].
func (h *RecoveryHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.RecoveryService.ResetWithEmailOTP(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeError(w, r, err, apiError(err))
		return
	}

	slogx.FromContext(r.Context()).Info("password reset", "method", "email")
	httpx.WriteJSON(w, http.StatusOK, vaultsdk.MessageResponse{
		Success: true,
		Message: "Password reset successfully. You can now login with your new password.",
	})
}
