package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/vault/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token bucket. The env tags let the application
// config override a profile, e.g. RATELIMIT_STRICT_REQUESTS.
type RateLimitConfig struct {
	RequestsPerWindow int           `env:"REQUESTS"`
	Window            time.Duration `env:"WINDOW"`
	Burst             int           `env:"BURST"`
}

// Default profiles. Strict guards anything that checks a password, OTP or
// backup code; public is for health checks.
var (
	StrictLimit   = RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 30}
	LenientLimit  = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
	PublicLimit   = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

// KeyExtractor returns the bucket key for a request. An empty key means the
// request is not limited.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor uses the connection address. Forwarding headers are
// ignored since any client can set them.
func IPKeyExtractor(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ForwardedIPKeyExtractor uses the first X-Forwarded-For hop, then
// X-Real-IP, then the connection address. Only use it behind a proxy that
// overwrites both headers.
func ForwardedIPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return IPKeyExtractor(r)
}

// ClientIPExtractor picks ForwardedIPKeyExtractor when trustProxy is set
// and IPKeyExtractor otherwise.
func ClientIPExtractor(trustProxy bool) KeyExtractor {
	if trustProxy {
		return ForwardedIPKeyExtractor
	}
	return IPKeyExtractor
}

// UserIDKeyExtractor uses the authenticated account id.
func UserIDKeyExtractor(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

const maxPeekBody = 64 << 10

// JSONFieldKeyExtractor reads a top-level string field from a JSON body and
// puts the body back for the handler. Values are lower-cased so "Bob@x" and
// "bob@x" share a bucket.
func JSONFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBody))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return ""
		}
		var v string
		if err := json.Unmarshal(fields[field], &v); err != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(v))
	}
}

// rateLimiter keeps one limiter per key.
type rateLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops idle limiters (full buckets) at most every 5 minutes.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware limits requests per key with config.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	rl := &rateLimiter{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)
			if !limiter.Allow() {
				reservation := limiter.Reserve()
				retryAfter := max(int(reservation.Delay().Seconds()), 1)
				reservation.Cancel()

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", config.Window.String())

				log.Warn("rate limit exceeded",
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)
				WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
					"Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by the client address that ip reports.
func RateLimitByIP(config RateLimitConfig, ip KeyExtractor) Middleware {
	return RateLimitMiddleware(config, ip)
}

// RateLimitByUser limits by account id alone, wherever the requests come
// from. Must run after AuthnMiddleware.
func RateLimitByUser(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, UserIDKeyExtractor)
}

// RateLimitByJSONField limits by a JSON body field alone, e.g. the email on
// recovery endpoints, so guesses against one account share a bucket.
func RateLimitByJSONField(config RateLimitConfig, field string) Middleware {
	return RateLimitMiddleware(config, JSONFieldKeyExtractor(field))
}

// RateLimitByIPAndJSONField limits by client address plus a JSON body field.
func RateLimitByIPAndJSONField(config RateLimitConfig, ip KeyExtractor, field string) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		ip,
		JSONFieldKeyExtractor(field),
	))
}
