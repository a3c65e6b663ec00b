package mailx

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/atriumhq/atrium/pkg/slogx"
)

// SMTPConfig holds the connection settings for an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Product is the display name used in subjects and the email footer.
	Product string
}

// SMTPMailer delivers code emails over SMTP with implicit TLS.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendCode(ctx context.Context, to, code string, purpose Purpose, validFor time.Duration) error {
	subject, body, err := renderCode(m.cfg.Product, code, purpose, validFor)
	if err != nil {
		return err
	}
	if err := m.send(ctx, to, subject, body); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("code email sent", "to", to, "purpose", string(purpose))
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mailx: %w", err)
	}

	var message bytes.Buffer
	fmt.Fprintf(&message, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	fmt.Fprintf(&message, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("mailx: connect to smtp server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("mailx: create smtp client: %w", err)
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mailx: authenticate: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mailx: set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("mailx: set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mailx: open data writer: %w", err)
	}
	if _, err := w.Write(message.Bytes()); err != nil {
		return fmt.Errorf("mailx: write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailx: close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("mailx: quit smtp session: %w", err)
	}
	return nil
}
