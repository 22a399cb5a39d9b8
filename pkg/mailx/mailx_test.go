package mailx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordReset(t *testing.T) {
	m, err := PasswordReset("bob@example.com", ResetVars{
		Issuer: "My Vault",
		Name:   "<Bob>",
		Code:   "123456",
		TTL:    "10m0s",
	})
	require.NoError(t, err)

	require.Equal(t, "bob@example.com", m.To)
	require.Equal(t, "My Vault password reset code", m.Subject)
	require.Contains(t, m.Text, "123456")
	require.Contains(t, m.Text, "Hello <Bob>")
	require.Contains(t, m.HTML, "<strong>123456</strong>")
	require.Contains(t, m.HTML, "&lt;Bob&gt;", "html part must escape user input")
}

func TestSMTPSender_BuildMessage(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "vault@example.com"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	msg := s.buildMessage(Message{
		To:      "bob@example.com",
		Subject: "Hi",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	require.Contains(t, raw, "From: vault@example.com")
	require.Contains(t, raw, "To: bob@example.com")
	require.Contains(t, raw, "multipart/alternative")
	require.Contains(t, raw, "plain body")
	require.Contains(t, raw, "html body")
}

func TestSMTPSender_Dialer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	d := NewSMTPSender(SMTPConfig{Host: "h", Port: 465, TLSMode: "ssl"}, logger).dialer()
	require.True(t, d.SSL)

	d = NewSMTPSender(SMTPConfig{Host: "h", Port: 587}, logger).dialer()
	require.False(t, d.SSL)
	require.Equal(t, "h", d.TLSConfig.ServerName)
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 1}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Send(ctx, Message{To: "x@example.com"}), context.Canceled)
}

func TestMemorySender(t *testing.T) {
	s := &MemorySender{}
	_, ok := s.Last()
	require.False(t, ok)

	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com"}))
	require.NoError(t, s.Send(context.Background(), Message{To: "b@example.com"}))

	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, "b@example.com", last.To)
	require.Len(t, s.Sent(), 2)

	s.Err = errors.New("relay down")
	require.Error(t, s.Send(context.Background(), Message{To: "c@example.com"}))
	require.Len(t, s.Sent(), 2)
	require.False(t, strings.Contains(s.Sent()[0].To, "c@"))
}

func TestLogSender_NeverLogsBody(t *testing.T) {
	var buf bytes.Buffer
	s := LogSender{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	err := s.Send(context.Background(), Message{
		To:      "bob@example.com",
		Subject: "My Vault password reset code",
		Text:    "Your My Vault password reset code is 654321.",
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "bob@example.com")
	require.NotContains(t, buf.String(), "654321")
}
