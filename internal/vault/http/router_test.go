package http

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/service"
	"github.com/aussiebroadwan/vault/internal/vault/store/drivers/sqlite"
	"github.com/aussiebroadwan/vault/pkg/cryptox"
	"github.com/aussiebroadwan/vault/pkg/httpx"
	"github.com/aussiebroadwan/vault/pkg/jwtx"
	"github.com/aussiebroadwan/vault/pkg/mailx"
	"github.com/aussiebroadwan/vault/pkg/otpx"
	"github.com/aussiebroadwan/vault/pkg/vaultsdk"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "vault-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testServer struct {
	router *Router
	store  *sqlite.Store
	keys   *jwtx.KeySet
	mail   *mailx.MemorySender
}

// newTestServer builds the full router on an in-memory store. Limits are
// raised so only the rate limit test trips them.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(priv)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mail := &mailx.MemorySender{}
	activity := &service.ActivityService{Store: st}

	r := NewRouter(keys, jwtx.NewVerifierEdDSA(keys, "Test Vault"), "test", st, logger)
	r.AccountService = &service.AccountService{
		Store:    st,
		Activity: activity,
		Signer:   signer,
		Issuer:   "Test Vault",
		TokenTTL: time.Hour,
	}
	r.ActivityService = activity
	r.AuthenticatorService = &service.AuthenticatorService{
		Store:    st,
		Activity: activity,
		Issuer:   "Test Vault",
		Window:   otpx.DefaultWindow,
		QRSize:   128,
	}
	r.RecoveryService = &service.RecoveryService{
		Store:    st,
		Activity: activity,
		Mailer:   mail,
		Issuer:   "Test Vault",
		Window:   otpx.DefaultWindow,
	}

	generous := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	r.Limits = RateLimits{Strict: generous, Moderate: generous, Lenient: generous, Public: generous}

	return &testServer{router: r, store: st, keys: keys, mail: mail}
}

func (s *testServer) start() {
	s.router.ApplyRoutes()
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// requireError checks the status and message of a failed request.
func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[httpx.ErrorBody](t, rec)
	require.False(t, body.Success)
	require.Equal(t, message, body.Message)
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", vaultsdk.RegisterRequest{
		Name:     "Alice",
		Email:    email,
		Password: "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[vaultsdk.AuthResponse](t, rec).Token
}

func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := otpx.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// wrongCode returns a well-formed code outside the accepted window.
func wrongCode(t *testing.T, secret string) string {
	t.Helper()
	step := otpx.Period * time.Second
	now := time.Now()
	valid := map[string]bool{}
	for _, at := range []time.Time{now.Add(-2 * step), now.Add(-step), now, now.Add(step), now.Add(2 * step)} {
		code, err := otpx.GenerateCode(secret, at)
		require.NoError(t, err)
		valid[code] = true
	}
	for _, c := range []string{"000000", "111111", "222222", "333333", "444444", "555555"} {
		if !valid[c] {
			return c
		}
	}
	t.Fatal("no invalid code found")
	return ""
}

// enable takes the account behind token through enable and verify.
func (s *testServer) enable(t *testing.T, token string) (string, []string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/authenticator/enable", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	secret := decode[vaultsdk.EnableAuthenticatorResponse](t, rec).Secret

	rec = s.do(t, http.MethodPost, "/auth/authenticator/verify", token, vaultsdk.OTPRequest{OTP: currentCode(t, secret)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return secret, decode[vaultsdk.IssuedBackupCodesResponse](t, rec).BackupCodes
}

func TestRouter_Unauthorized(t *testing.T) {
	s := newTestServer(t)
	s.start()

	for _, path := range []string{
		"/auth/authenticator/enable",
		"/auth/authenticator/verify",
		"/auth/authenticator/disable",
		"/auth/authenticator/regenerate-backup-codes",
	} {
		rec := s.do(t, http.MethodPost, path, "", nil)
		requireError(t, rec, http.StatusUnauthorized, "Not authorized, no token")
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	}

	rec := s.do(t, http.MethodGet, "/auth/authenticator/backup-codes", "not-a-jwt", nil)
	requireError(t, rec, http.StatusUnauthorized, "Not authorized, token failed")
}

func TestRouter_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	s.start()
	token := s.register(t, "alice@example.com")

	req := httptest.NewRequest(http.MethodPost, "/auth/authenticator/verify", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	requireError(t, rec, http.StatusBadRequest, "Invalid JSON body")
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	s.start()

	rec := s.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[vaultsdk.HealthResponse](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[vaultsdk.HealthResponse](t, rec)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestRouter_ReadyzDegraded(t *testing.T) {
	s := newTestServer(t)
	s.start()
	require.NoError(t, s.store.Close())

	rec := s.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", decode[vaultsdk.HealthResponse](t, rec).Status)
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t)
	s.router.Limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	s.start()

	body := vaultsdk.LoginRequest{Email: "alice@example.com", Password: "wrong-one"}
	rec := s.do(t, http.MethodPost, "/auth/login", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different email has its own bucket
	rec = s.do(t, http.MethodPost, "/auth/login", "", vaultsdk.LoginRequest{Email: "bob@example.com", Password: "x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// doFrom sends body from a client claiming to be forwarded for xff.
func (s *testServer) doFrom(t *testing.T, method, path, token, xff string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", xff)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RateLimitRecoveryIgnoresForwardedFor(t *testing.T) {
	s := newTestServer(t)
	s.router.Limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	s.start()
	s.register(t, "alice@example.com")

	for _, path := range []string{
		"/auth/reset-password-authenticator",
		"/auth/reset-password-backup-code",
	} {
		t.Run(path, func(t *testing.T) {
			limited := 0
			for i := range 20 {
				rec := s.doFrom(t, http.MethodPost, path, "", fmt.Sprintf("10.0.0.%d", i+1), map[string]string{
					"email":       "Alice@example.com",
					"otp":         "123456",
					"backupCode":  "00000000",
					"newPassword": "brand-new",
				})
				if rec.Code == http.StatusTooManyRequests {
					limited++
				}
			}
			require.Equal(t, 19, limited)
		})
	}
}

func TestRouter_RateLimitAuthenticatorIgnoresForwardedFor(t *testing.T) {
	s := newTestServer(t)
	s.router.Limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	s.start()
	token := s.register(t, "alice@example.com")
	secret, _ := s.enable(t, token) // spends one strict token on verify

	rec := s.doFrom(t, http.MethodPost, "/auth/authenticator/disable", token, "10.0.0.1", vaultsdk.OTPRequest{OTP: wrongCode(t, secret)})
	requireError(t, rec, http.StatusBadRequest, "Invalid OTP")

	for i := range 5 {
		rec = s.doFrom(t, http.MethodPost, "/auth/authenticator/disable", token, fmt.Sprintf("10.0.1.%d", i), vaultsdk.OTPRequest{OTP: wrongCode(t, secret)})
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
	}

	// Another account is unaffected
	other := s.register(t, "bob@example.com")
	rec = s.doFrom(t, http.MethodPost, "/auth/authenticator/disable", other, "10.0.1.0", vaultsdk.OTPRequest{OTP: "123456"})
	requireError(t, rec, http.StatusBadRequest, "Authenticator is not enabled")
}

func TestRouter_RateLimitChangePasswordPerAccount(t *testing.T) {
	s := newTestServer(t)
	s.router.Limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	s.start()
	token := s.register(t, "alice@example.com")

	guess := vaultsdk.ChangePasswordRequest{OldPassword: "wrong-password", NewPassword: "correct horse"}
	rec := s.doFrom(t, http.MethodPut, "/user/change-password", token, "10.0.2.1", guess)
	requireError(t, rec, http.StatusUnauthorized, "Old password is incorrect")

	for i := range 3 {
		rec = s.doFrom(t, http.MethodPut, "/user/change-password", token, fmt.Sprintf("10.0.3.%d", i), guess)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
	}
}

func TestRouter_RequestID(t *testing.T) {
	s := newTestServer(t)
	s.start()

	rec := s.do(t, http.MethodGet, "/livez", "", nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
