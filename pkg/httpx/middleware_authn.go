package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/vault/pkg/jwtx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
)

// AuthnMiddleware requires a valid "Authorization: Bearer <jwt>" header and
// injects the caller into the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token", "Not authorized, no token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed", "Not authorized, token failed")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.WithContext(ctx, log.With("user_id", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeBearerError sends an RFC 6750 challenge with the usual JSON body.
func writeBearerError(w http.ResponseWriter, desc, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", message)
}
