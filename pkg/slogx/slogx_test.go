package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/vault/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warn"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel(""))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("chatty"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{
		Service: "vault",
		Version: "test",
		Env:     "prod",
		Level:   "info",
		Format:  "json",
		Output:  &buf,
	})

	logger.Debug("hidden")
	logger.Info("hello", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	require.Equal(t, "hello", rec["msg"])
	require.Equal(t, "vault", rec["service"])
	require.Equal(t, "v", rec["k"])
}

func TestFromContext_Default(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var inner *slog.Logger
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = slogx.FromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		require.NotEqual(t, base, inner)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "WARN", line["level"])
		require.Equal(t, float64(404), line["status"])
		require.Equal(t, rec.Header().Get("X-Request-ID"), line["req_id"])
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Request-ID", "abc123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "abc123", rec.Header().Get("X-Request-ID"))
	})
}
