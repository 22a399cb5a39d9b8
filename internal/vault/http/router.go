package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/vault/internal/vault/service"
	"github.com/aussiebroadwan/vault/internal/vault/store"
	"github.com/aussiebroadwan/vault/pkg/httpx"
	"github.com/aussiebroadwan/vault/pkg/jwtx"
	"github.com/aussiebroadwan/vault/pkg/slogx"

	_ "github.com/aussiebroadwan/vault/api/vault" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits are the throttling profiles applied per route.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
	Public   httpx.RateLimitConfig
}

// DefaultRateLimits returns the httpx default profiles.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
		Public:   httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Limits RateLimits
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only set it behind a proxy that overwrites those headers.
	TrustProxy bool

	AccountService       *service.AccountService
	ActivityService      *service.ActivityService
	AuthenticatorService *service.AuthenticatorService
	RecoveryService      *service.RecoveryService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.clientInfoMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerAuthenticator()
	r.registerRecovery()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Vault API
//	@version		0.1.0
//	@description	Personal file vault accounts with TOTP two-factor authentication, backup codes and password recovery.
//	@description
//	@description				Bearer tokens are EdDSA (Ed25519) signed JWTs returned by register and login.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/vault
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// clientIP is the address used for IP limits and the activity log.
func (r *Router) clientIP(req *http.Request) string {
	return httpx.ClientIPExtractor(r.TrustProxy)(req)
}

// clientInfoMiddleware records where a request came from for the activity log.
func (r *Router) clientInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := service.WithClientInfo(req.Context(), service.ClientInfo{
			IP:        r.clientIP(req),
			UserAgent: req.UserAgent(),
		})
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// authed wraps h with bearer authentication and a limit keyed on the
// account alone.
func (r *Router) authed(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{
		AccountService:  r.AccountService,
		ActivityService: r.ActivityService,
	}

	// Sign-up and sign-in check passwords, so strict. Login also has a
	// per-email ceiling shared by every client address.
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.Limits.Strict, r.clientIP),
		),
	)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, r.clientIP, "email"),
			httpx.RateLimitByJSONField(r.Limits.Moderate, "email"),
		),
	)

	r.Mux.Handle("GET /user/profile", r.authed(h.HandleProfile, r.Limits.Lenient))
	r.Mux.Handle("GET /user/activity", r.authed(h.HandleActivity, r.Limits.Lenient))
	r.Mux.Handle("PUT /user/profile", r.authed(h.HandleUpdateProfile, r.Limits.Strict))
	r.Mux.Handle("PUT /user/change-password", r.authed(h.HandleChangePassword, r.Limits.Strict))
}

func (r *Router) registerAuthenticator() {
	h := &AuthenticatorHandler{AuthenticatorService: r.AuthenticatorService}

	// Anything that checks a TOTP code is strict to slow down guessing
	r.Mux.Handle("POST /auth/authenticator/enable", r.authed(h.HandleEnable, r.Limits.Moderate))
	r.Mux.Handle("POST /auth/authenticator/verify", r.authed(h.HandleVerify, r.Limits.Strict))
	r.Mux.Handle("POST /auth/authenticator/disable", r.authed(h.HandleDisable, r.Limits.Strict))
	r.Mux.Handle("GET /auth/authenticator/backup-codes", r.authed(h.HandleBackupCodes, r.Limits.Moderate))
	r.Mux.Handle("POST /auth/authenticator/regenerate-backup-codes", r.authed(h.HandleRegenerate, r.Limits.Strict))
}

func (r *Router) registerRecovery() {
	h := &RecoveryHandler{RecoveryService: r.RecoveryService}

	// Keyed on the email alone: every guess at one account's codes shares
	// a bucket however many addresses it comes from.
	strictByEmail := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByJSONField(r.Limits.Strict, "email"))
	}

	r.Mux.Handle("GET /auth/check-authenticator/{email}",
		httpx.Chain(http.HandlerFunc(h.HandleCheck),
			httpx.RateLimitByIP(r.Limits.Moderate, r.clientIP),
		),
	)
	r.Mux.Handle("POST /auth/reset-password-authenticator", strictByEmail(h.HandleResetWithAuthenticator))
	r.Mux.Handle("POST /auth/reset-password-backup-code", strictByEmail(h.HandleResetWithBackupCode))
	r.Mux.Handle("POST /auth/forgot-password", strictByEmail(h.HandleForgotPassword))
	r.Mux.Handle("POST /auth/reset-password", strictByEmail(h.HandleResetPassword))
}

func (r *Router) registerSystem() {
	// Health checks may poll often
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public, r.clientIP),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.Limits.Public, r.clientIP),
		),
	)
}
