// Package mailx delivers transactional email.
package mailx

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	mail "github.com/go-mail/mail"
)

// Message is a single outgoing email. At least one of Text and HTML should
// be set; when both are, the HTML part is sent as an alternative.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPConfig configures SMTPSender. TLSMode is "auto" (STARTTLS when
// offered), "ssl" (implicit TLS) or "none".
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	TLSMode  string
	Insecure bool // skip certificate verification, dev only
}

// SMTPSender sends mail through an SMTP relay using go-mail.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

func (s *SMTPSender) buildMessage(m Message) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)

	switch {
	case m.Text != "" && m.HTML != "":
		msg.SetBody("text/plain", m.Text)
		msg.AddAlternative("text/html", m.HTML)
	case m.HTML != "":
		msg.SetBody("text/html", m.HTML)
	default:
		msg.SetBody("text/plain", m.Text)
	}
	return msg
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.Insecure, // #nosec G402 -- opt-in for local relays
	}

	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	}
	return d
}

// Send dials the relay and delivers m. The dial is not cancellable; ctx is
// only checked before connecting.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := s.logger.With("to", m.To, "subject", m.Subject, "host", s.cfg.Host)
	if err := s.dialer().DialAndSend(s.buildMessage(m)); err != nil {
		log.Error("smtp send failed", "err", err)
		return fmt.Errorf("mailx: smtp send: %w", err)
	}
	log.Info("smtp send ok")
	return nil
}

// MemorySender keeps messages in memory instead of delivering them.
type MemorySender struct {
	mu   sync.Mutex
	sent []Message

	// Err, when set, is returned from every Send and nothing is stored.
	Err error
}

func (s *MemorySender) Send(ctx context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sent = append(s.sent, m)
	return nil
}

// Sent returns a copy of the delivered messages.
func (s *MemorySender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

// Last returns the most recent message.
func (s *MemorySender) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return Message{}, false
	}
	return s.sent[len(s.sent)-1], true
}

// LogSender records that a message would have been sent. Bodies are never
// logged since they carry reset codes.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.WarnContext(ctx, "smtp not configured, email dropped",
		"to", m.To,
		"subject", m.Subject,
	)
	return nil
}
