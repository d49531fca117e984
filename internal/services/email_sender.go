// internal/services/email_sender.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/art-rental-backend/internal/config"
)

var errEmailNotConfigured = errors.New("no email provider configured")

// EmailSender delivers one HTML message to a list of recipients.
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
	Name() string
}

// NewEmailSender prefers Resend, then SMTP, and falls back to logging.
func NewEmailSender(cfg config.EmailConfig) EmailSender {
	switch {
	case cfg.ResendAPIKey != "":
		return NewResendSender(cfg)
	case cfg.SMTPHost != "":
		return &SMTPSender{config: cfg}
	default:
		return LogSender{}
	}
}

func fromAddress(cfg config.EmailConfig) string {
	from := mail.Address{Name: headerValue(cfg.FromName), Address: headerValue(cfg.FromEmail)}
	if from.Name == "" {
		return from.Address
	}
	return from.String()
}

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerValue folds line breaks so user text cannot start a new header.
func headerValue(v string) string {
	return strings.TrimSpace(headerBreaks.Replace(v))
}

// composeMessage builds the raw RFC 5322 message sent over SMTP.
func composeMessage(from string, to []string, subject, htmlBody string) []byte {
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		recipients = append(recipients, headerValue(addr))
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	return []byte(msg.String())
}

type SMTPSender struct {
	config config.EmailConfig
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	// Setup authentication
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	msg := composeMessage(fromAddress(s.config), to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.config.FromEmail, to, msg); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(cfg config.EmailConfig) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   fromAddress(cfg),
	}
}

func (s *ResendSender) Name() string { return "resend" }

func (s *ResendSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      to,
		Subject: headerValue(subject),
		Html:    htmlBody,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}

// LogSender only logs; it is used when no provider is configured.
type LogSender struct{}

func (LogSender) Name() string { return "log" }

func (LogSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email not configured, skipping send")
	return errEmailNotConfigured
}
