// Package mailer sends outbound transactional email. Two providers are
// supported: direct SMTP over TLS and the Plunk HTTP API.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/learnhubhq/learnhub/internal/config"
)

// Sender delivers a single message. Implementations do not retry; the caller
// decides what a failed send means for its own state.
type Sender interface {
	Send(to, subject, body string) error
}

// New selects the provider from configuration.
func New(cfg *config.Config) (Sender, error) {
	if cfg.MailProvider == "plunk" {
		return NewPlunk(cfg)
	}
	return NewSMTP(cfg)
}

// SMTP sends plain-text mail over an implicit-TLS SMTP connection.
type SMTP struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTP(cfg *config.Config) (*SMTP, error) {
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" || cfg.SMTPFrom == "" {
		return nil, fmt.Errorf("smtp not configured: set SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM (or set MAIL_PROVIDER=plunk)")
	}
	return &SMTP{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}, nil
}

func (s *SMTP) Send(to, subject, body string) error {
	addr := s.host + ":" + s.port
	msg := BuildMessage(s.from, to, subject, body)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return c.Quit()
}

// BuildMessage assembles the RFC 5322 message sent over SMTP.
func BuildMessage(from, to, subject, body string) string {
	msg := ""
	msg += fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=\"utf-8\"\r\n"
	msg += "\r\n" + body + "\r\n"
	return msg
}
