package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
	"github.com/aussiebroadwan/vault/internal/vault/service"
	"github.com/aussiebroadwan/vault/pkg/httpx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
	"github.com/aussiebroadwan/vault/pkg/vaultsdk"
)

const maxBodyBytes = 1 << 20

// apiError maps a service error onto the response the caller sees.
// Anything unrecognised is a 500 with a generic message.
func apiError(err error) *vaultsdk.APIError {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return vaultsdk.NewAPIError(http.StatusBadRequest, vaultsdk.ErrorCodeValidation, verr.Message)
	case errors.Is(err, service.ErrInvalidCode):
		return vaultsdk.ErrInvalidOTP
	case errors.Is(err, service.ErrInvalidBackupCode):
		return vaultsdk.ErrInvalidBackupCode
	case errors.Is(err, service.ErrInvalidResetOTP):
		return vaultsdk.ErrInvalidResetOTP
	case errors.Is(err, service.ErrNotEnrolled):
		return vaultsdk.ErrNotEnrolled
	case errors.Is(err, service.ErrNotEnabled):
		return vaultsdk.ErrNotEnabled
	case errors.Is(err, service.ErrAlreadyEnabled):
		return vaultsdk.ErrAlreadyEnabled
	case errors.Is(err, service.ErrAccountNotFound):
		return vaultsdk.ErrUserNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return vaultsdk.ErrUserExists
	case errors.Is(err, service.ErrInvalidCredentials):
		return vaultsdk.ErrInvalidCredentials
	case errors.Is(err, service.ErrWrongPassword):
		return vaultsdk.ErrWrongPassword
	case errors.Is(err, service.ErrMailDelivery):
		return vaultsdk.ErrMailDelivery
	default:
		return vaultsdk.ErrServerError
	}
}

// writeError logs err and writes its mapped response. Client mistakes are
// logged at Warn, everything else at Error.
func writeError(w http.ResponseWriter, r *http.Request, err error, apiErr *vaultsdk.APIError) {
	log := slogx.FromContext(r.Context())
	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", "code", apiErr.Code, "err", err)
	} else {
		log.Warn("request rejected", "code", apiErr.Code, "reason", err.Error())
	}
	apiErr.WriteError(w)
}

// decodeBody reads a JSON body into v. An empty body leaves v zero so the
// service can report which fields are missing.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	slogx.FromContext(r.Context()).Warn("failed to parse request", "err", err)
	vaultsdk.ErrInvalidJSON.WriteError(w)
	return false
}

// accountID returns the caller set by AuthnMiddleware.
func accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		vaultsdk.ErrUnauthorized.WriteError(w)
	}
	return id, ok
}

func toUser(acct domain.Account) vaultsdk.User {
	return vaultsdk.User{
		ID:                     acct.ID,
		Name:                   acct.Name,
		Email:                  acct.Email,
		Role:                   acct.Role,
		IsAuthenticatorEnabled: acct.AuthenticatorEnabled(),
		CreatedAt:              acct.CreatedAt,
	}
}

// sessionError maps errors for endpoints acting on the signed-in account,
// where a missing account means the token outlived it.
func sessionError(err error) *vaultsdk.APIError {
	if errors.Is(err, service.ErrAccountNotFound) {
		return vaultsdk.ErrAccountNotFound
	}
	return apiError(err)
}

// recoveryError maps errors for the public reset endpoints.
func recoveryError(err error) *vaultsdk.APIError {
	if errors.Is(err, service.ErrNotEnabled) {
		return vaultsdk.ErrNotEnabledForUser
	}
	return apiError(err)
}
