package http

import (
	"net/http"

	"github.com/aussiebroadwan/vault/internal/vault/service"
	"github.com/aussiebroadwan/vault/pkg/httpx"
	"github.com/aussiebroadwan/vault/pkg/vaultsdk"
)

// AccountHandler serves sign-up, sign-in and the account's own views.
type AccountHandler struct {
	AccountService  *service.AccountService
	ActivityService *service.ActivityService
}

// HandleRegister handles POST /auth/register
//
//	@Summary		Create an account
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.RegisterRequest	true	"Name, email and password"
//	@Success		201		{object}	vaultsdk.AuthResponse		"Token and account"
//	@Failure		400		{object}	vaultsdk.APIError			"Missing fields or short password"
//	@Failure		409		{object}	vaultsdk.APIError			"User already exists"
//	@Failure		500		{object}	vaultsdk.APIError			"Internal server error"
//	@Router			/auth/register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := h.AccountService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, apiError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, vaultsdk.AuthResponse{
		Success: true,
		Token:   sess.Token,
		User:    toUser(sess.Account),
	})
}

// HandleLogin handles POST /auth/login
//
//	@Summary		Sign in
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.LoginRequest	true	"Email and password"
//	@Success		200		{object}	vaultsdk.AuthResponse	"Token and account"
//	@Failure		400		{object}	vaultsdk.APIError		"Missing fields"
//	@Failure		401		{object}	vaultsdk.APIError		"Invalid credentials"
//	@Failure		500		{object}	vaultsdk.APIError		"Internal server error"
//	@Router			/auth/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := h.AccountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, apiError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.AuthResponse{
		Success: true,
		Token:   sess.Token,
		User:    toUser(sess.Account),
	})
}

// HandleProfile handles GET /user/profile
//
//	@Summary		Get the signed-in account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	vaultsdk.ProfileResponse	"Account"
//	@Failure		401	{object}	vaultsdk.APIError			"Invalid or missing access token"
//	@Failure		404	{object}	vaultsdk.APIError			"User not found"
//	@Router			/user/profile [get].
func (h *AccountHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	acct, err := h.AccountService.Profile(r.Context(), id)
	if err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.ProfileResponse{
		Success: true,
		User:    toUser(acct),
	})
}

// HandleUpdateProfile handles PUT /user/profile
//
//	@Summary		Rename the signed-in account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.UpdateProfileRequest	true	"New name"
//	@Success		200		{object}	vaultsdk.UpdateProfileResponse	"Updated account"
//	@Failure		400		{object}	vaultsdk.APIError				"Missing name"
//	@Failure		401		{object}	vaultsdk.APIError				"Invalid or missing access token"
//	@Failure		404		{object}	vaultsdk.APIError				"User not found"
//	@Failure		429		{object}	vaultsdk.APIError				"Rate limit exceeded"
//	@Router			/user/profile [put].
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req vaultsdk.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acct, err := h.AccountService.UpdateProfile(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.UpdateProfileResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    toUser(acct),
	})
}

// HandleChangePassword handles PUT /user/change-password
//
//	@Summary		Change the password of the signed-in account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	vaultsdk.MessageResponse		"Password changed"
//	@Failure		400		{object}	vaultsdk.APIError				"Missing fields or short password"
//	@Failure		401		{object}	vaultsdk.APIError				"Old password is incorrect"
//	@Failure		404		{object}	vaultsdk.APIError				"User not found"
//	@Failure		429		{object}	vaultsdk.APIError				"Rate limit exceeded"
//	@Router			/user/change-password [put].
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req vaultsdk.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.AccountService.ChangePassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, r, err, sessionError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.MessageResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

// HandleActivity handles GET /user/activity
//
//	@Summary		Recent account activity
//	@Description	Up to 50 entries, newest first.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	vaultsdk.ActivityResponse	"Activity entries"
//	@Failure		401	{object}	vaultsdk.APIError			"Invalid or missing access token"
//	@Failure		500	{object}	vaultsdk.APIError			"Internal server error"
//	@Router			/user/activity [get].
func (h *AccountHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	entries, err := h.ActivityService.Recent(r.Context(), id)
	if err != nil {
		writeError(w, r, err, apiError(err))
		return
	}

	out := make([]vaultsdk.Activity, 0, len(entries))
	for _, e := range entries {
		out = append(out, vaultsdk.Activity{
			ID:          e.ID,
			Action:      string(e.Action),
			Description: e.Description,
			IP:          e.IP,
			UserAgent:   e.UserAgent,
			CreatedAt:   e.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, vaultsdk.ActivityResponse{Success: true, Activities: out})
}
