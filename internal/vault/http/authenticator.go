package http

import (
	"net/http"

	"github.com/aussiebroadwan/vault/internal/vault/service"
	"github.com/aussiebroadwan/vault/pkg/httpx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
	"github.com/aussiebroadwan/vault/pkg/vaultsdk"
)

// AuthenticatorHandler serves the signed-in authenticator endpoints.
type AuthenticatorHandler struct {
	AuthenticatorService *service.AuthenticatorService
}

// HandleEnable handles POST /auth/authenticator/enable
//
//	@Summary		Start authenticator enrollment
//	@Description	Generates a new pending TOTP secret and returns it with a QR code. Calling it again replaces the pending secret.
//	@Tags			Authenticator
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	vaultsdk.EnableAuthenticatorResponse	"Pending secret and QR code"
//	@Failure		400	{object}	vaultsdk.APIError						"Authenticator already enabled"
//	@Failure		401	{object}	vaultsdk.APIError						"Invalid or missing access token"
//	@Failure		500	{object}	vaultsdk.APIError						"Internal server error"
//	@Router			/auth/authenticator/enable [post].
func (h *AuthenticatorHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	enr, err := h.AuthenticatorService.Enable(r.Context(), id)
	if err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.EnableAuthenticatorResponse{
		Success:        true,
		Message:        "QR code generated successfully",
		QRCode:         enr.QRCode,
		Secret:         enr.Secret,
		ManualEntryKey: enr.Secret,
	})
}

// HandleVerify handles POST /auth/authenticator/verify
//
//	@Summary		Confirm authenticator enrollment
//	@Description	Checks a code against the pending secret, enables the authenticator and issues 10 backup codes.
//	@Tags			Authenticator
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.OTPRequest					true	"Code from the authenticator app"
//	@Success		200		{object}	vaultsdk.IssuedBackupCodesResponse	"Backup codes"
//	@Failure		400		{object}	vaultsdk.APIError					"Missing or invalid OTP, or nothing pending"
//	@Failure		401		{object}	vaultsdk.APIError					"Invalid or missing access token"
//	@Failure		500		{object}	vaultsdk.APIError					"Internal server error"
//	@Router			/auth/authenticator/verify [post].
func (h *AuthenticatorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req vaultsdk.OTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	codes, err := h.AuthenticatorService.Verify(r.Context(), id, req.OTP)
	if err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	slogx.FromContext(r.Context()).Info("authenticator enabled")
	httpx.WriteJSON(w, http.StatusOK, vaultsdk.IssuedBackupCodesResponse{
		Success:     true,
		Message:     "Authenticator enabled successfully",
		BackupCodes: codes,
	})
}

// HandleDisable handles POST /auth/authenticator/disable
//
//	@Summary		Disable the authenticator
//	@Description	Requires a current code. Clears the secret and every backup code.
//	@Tags			Authenticator
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.OTPRequest			true	"Code from the authenticator app"
//	@Success		200		{object}	vaultsdk.MessageResponse	"Disabled"
//	@Failure		400		{object}	vaultsdk.APIError			"Missing or invalid OTP, or not enabled"
//	@Failure		401		{object}	vaultsdk.APIError			"Invalid or missing access token"
//	@Failure		500		{object}	vaultsdk.APIError			"Internal server error"
//	@Router			/auth/authenticator/disable [post].
func (h *AuthenticatorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req vaultsdk.OTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.AuthenticatorService.Disable(r.Context(), id, req.OTP); err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	slogx.FromContext(r.Context()).Info("authenticator disabled")
	httpx.WriteJSON(w, http.StatusOK, vaultsdk.MessageResponse{
		Success: true,
		Message: "Authenticator disabled successfully",
	})
}

// HandleBackupCodes handles GET /auth/authenticator/backup-codes
//
//	@Summary		List unused backup codes
//	@Tags			Authenticator
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	vaultsdk.BackupCodesResponse	"Unused codes with totals"
//	@Failure		400	{object}	vaultsdk.APIError				"Authenticator not enabled"
//	@Failure		401	{object}	vaultsdk.APIError				"Invalid or missing access token"
//	@Failure		500	{object}	vaultsdk.APIError				"Internal server error"
//	@Router			/auth/authenticator/backup-codes [get].
func (h *AuthenticatorHandler) HandleBackupCodes(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	sum, err := h.AuthenticatorService.BackupCodes(r.Context(), id)
	if err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.BackupCodesResponse{
		Success:     true,
		BackupCodes: sum.Unused,
		Total:       sum.Total,
		Used:        sum.Used,
	})
}

// HandleRegenerate handles POST /auth/authenticator/regenerate-backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Requires a current code. Replaces all backup codes, used or not, with 10 new ones.
//	@Tags			Authenticator
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.OTPRequest					true	"Code from the authenticator app"
//	@Success		200		{object}	vaultsdk.IssuedBackupCodesResponse	"New backup codes"
//	@Failure		400		{object}	vaultsdk.APIError					"Missing or invalid OTP, or not enabled"
//	@Failure		401		{object}	vaultsdk.APIError					"Invalid or missing access token"
//	@Failure		500		{object}	vaultsdk.APIError					"Internal server error"
//	@Router			/auth/authenticator/regenerate-backup-codes [post].
func (h *AuthenticatorHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req vaultsdk.OTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	codes, err := h.AuthenticatorService.RegenerateBackupCodes(r.Context(), id, req.OTP)
	if err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.IssuedBackupCodesResponse{
		Success:     true,
		Message:     "Backup codes regenerated successfully",
		BackupCodes: codes,
	})
}
