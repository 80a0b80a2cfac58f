// Package mailer sends transactional email over SMTP. When no SMTP
// host is configured the mailer runs in log-only mode: messages are
// written to the process log instead of being delivered, which keeps
// local development working without a mail relay.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Config carries SMTP connection settings plus the identity used in
// outgoing mail.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	AdminEmail  string
	CompanyName string
}

// Mailer delivers email for booking and contact notifications.
type Mailer struct {
	cfg Config
	log *slog.Logger
}

// New returns a Mailer. A nil logger falls back to slog.Default.
func New(cfg Config, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	if cfg.CompanyName == "" {
		cfg.CompanyName = "Ignux Fireworks"
	}
	return &Mailer{cfg: cfg, log: log}
}

// Enabled reports whether real SMTP delivery is configured.
func (m *Mailer) Enabled() bool { return m.cfg.Host != "" }

// AdminEmail returns the staff inbox for internal notifications;
// empty when none is configured.
func (m *Mailer) AdminEmail() string { return m.cfg.AdminEmail }

// Send delivers one HTML email. In log-only mode the message is
// logged and nil is returned.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	if !m.Enabled() {
		m.log.Info("mail suppressed (no SMTP host configured)",
			"to", to, "subject", subject)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.CompanyName, m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
