package vaultsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/vault/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_error"
	ErrorCodeInvalidOTP         = "invalid_otp"
	ErrorCodeInvalidBackupCode  = "invalid_backup_code"
	ErrorCodeNotEnabled         = "authenticator_not_enabled"
	ErrorCodeAlreadyEnabled     = "authenticator_already_enabled"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

// APIError is the error body of every failed request. The server writes it
// and the client returns it, so callers can switch on Code.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes e as {"success": false, "error": ..., "message": ...}.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Message)
}

// NewAPIError returns an APIError with a custom message.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

var (
	ErrInvalidJSON = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "Invalid JSON body",
	}

	ErrInvalidOTP = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidOTP,
		Message:    "Invalid OTP",
	}

	ErrInvalidResetOTP = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidOTP,
		Message:    "Invalid or expired OTP",
	}

	// ErrInvalidBackupCode deliberately covers unknown, malformed and spent
	// codes alike.
	ErrInvalidBackupCode = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidBackupCode,
		Message:    "Invalid or already used backup code",
	}

	ErrNotEnabled = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeNotEnabled,
		Message:    "Authenticator is not enabled",
	}

	ErrNotEnabledForUser = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeNotEnabled,
		Message:    "Authenticator is not enabled for this user",
	}

	ErrNotEnrolled = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeNotEnabled,
		Message:    "Authenticator secret not found. Enable authenticator first.",
	}

	ErrAlreadyEnabled = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeAlreadyEnabled,
		Message:    "Authenticator is already enabled",
	}

	ErrUserNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "No user found with this email",
	}

	ErrAccountNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "User not found",
	}

	ErrUserExists = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeConflict,
		Message:    "User already exists",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "Invalid credentials",
	}

	ErrWrongPassword = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "Old password is incorrect",
	}

	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "Not authorized, no token",
	}

	ErrMailDelivery = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "Error sending email. Please try again later.",
	}

	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "Server error",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var e APIError
	if err := json.Unmarshal(body, &e); err == nil && e.Code != "" {
		e.StatusCode = resp.StatusCode
		return &e
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
