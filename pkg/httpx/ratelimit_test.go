package httpx_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/vault/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("ignores forwarding headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})
}

func TestForwardedIPKeyExtractor(t *testing.T) {
	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.ForwardedIPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.ForwardedIPKeyExtractor(req))
	})

	t.Run("falls back to RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", " ")
		require.Equal(t, "192.168.1.1", httpx.ForwardedIPKeyExtractor(req))
	})
}

func TestClientIPExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.1")

	require.Equal(t, "192.168.1.1", httpx.ClientIPExtractor(false)(req))
	require.Equal(t, "203.0.113.1", httpx.ClientIPExtractor(true)(req))
}

func TestJSONFieldKeyExtractor(t *testing.T) {
	t.Run("reads field and restores body", func(t *testing.T) {
		body := `{"email":" Bob@Example.com ","otp":"123456"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		key := httpx.JSONFieldKeyExtractor("email")(req)
		require.Equal(t, "bob@example.com", key)

		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.Equal(t, body, string(rest))
	})

	t.Run("missing field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"otp":"123456"}`))
		require.Equal(t, "", httpx.JSONFieldKeyExtractor("email")(req))
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`email=bob`))
		require.Equal(t, "", httpx.JSONFieldKeyExtractor("email")(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"alice@example.com"}`))
	req.RemoteAddr = "192.168.1.1:12345"

	extract := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.JSONFieldKeyExtractor("email"))
	require.Equal(t, "192.168.1.1:alice@example.com", extract(req))

	// Empty parts are skipped
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "192.168.1.1", extract(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		}, httpx.IPKeyExtractor)(okHandler())

		for i := range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), `"success":false`)
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, httpx.IPKeyExtractor)(okHandler())

		for _, tc := range []struct {
			addr string
			want int
		}{
			{"192.168.1.1:1", http.StatusOK},
			{"192.168.1.1:2", http.StatusTooManyRequests},
			{"192.168.1.2:1", http.StatusOK},
		} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.addr
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			require.Equal(t, tc.want, rec.Code, tc.addr)
		}
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, func(*http.Request) string { return "" })(okHandler())

		for range 3 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimitByIPAndJSONField(t *testing.T) {
	var seen []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = append(seen, string(b))
		w.WriteHeader(http.StatusOK)
	})

	limited := httpx.RateLimitByIPAndJSONField(httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}, httpx.IPKeyExtractor, "email")(handler)

	send := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send(`{"email":"alice@example.com"}`))
	require.Equal(t, http.StatusTooManyRequests, send(`{"email":"ALICE@example.com"}`))
	require.Equal(t, http.StatusOK, send(`{"email":"bob@example.com"}`))

	// Handler still sees the full body
	require.Equal(t, []string{`{"email":"alice@example.com"}`, `{"email":"bob@example.com"}`}, seen)
}

func TestRateLimitByJSONField_IgnoresClientAddress(t *testing.T) {
	limited := httpx.RateLimitByJSONField(httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}, "email")(okHandler())

	send := func(addr, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"alice@example.com"}`))
		req.RemoteAddr = addr
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("10.0.0.1:1", "198.51.100.1"))
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.2:1", "198.51.100.2"))
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.3:1", "198.51.100.3"))
}

func TestRateLimitByUser_IgnoresClientAddress(t *testing.T) {
	limited := httpx.RateLimitByUser(httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	})(okHandler())

	send := func(user, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), httpx.CtxKeyUserID, user))
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("acct-1", "198.51.100.1"))
	require.Equal(t, http.StatusTooManyRequests, send("acct-1", "198.51.100.2"))
	require.Equal(t, http.StatusOK, send("acct-2", "198.51.100.2"))
}

func TestRateLimitProfiles(t *testing.T) {
	for name, config := range map[string]httpx.RateLimitConfig{
		"strict":   httpx.StrictLimit,
		"moderate": httpx.ModerateLimit,
		"lenient":  httpx.LenientLimit,
		"public":   httpx.PublicLimit,
	} {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, config.RequestsPerWindow)
			require.Positive(t, config.Window)
			require.Positive(t, config.Burst)
		})
	}

	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
	require.Less(t, httpx.LenientLimit.RequestsPerWindow, httpx.PublicLimit.RequestsPerWindow)
}
