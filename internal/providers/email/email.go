// Package email sends transactional mail over SMTP. When no SMTP host is
// configured a no-op sender is wired in so callers never nil-check.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shopyard/shopyard/internal/config"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func New(cfg config.Config, log *zap.Logger) Sender {
	if cfg.Email.SMTPHost == "" {
		return &noopSender{log: log.Named("email")}
	}
	return &smtpSender{cfg: cfg.Email, log: log.Named("email")}
}

type smtpSender struct {
	cfg config.EmailConfig
	log *zap.Logger
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.SMTPFrom)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Debug("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type noopSender struct {
	log *zap.Logger
}

func (s *noopSender) Send(_ context.Context, msg Message) error {
	s.log.Debug("email skipped, smtp not configured", zap.String("to", msg.To))
	return nil
}
