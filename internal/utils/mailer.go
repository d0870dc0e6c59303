package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// Mailer sends the account verification mail over SMTP.  Settings come
// from SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS and MAIL_FROM; when
// SMTP_HOST is unset the mailer is disabled and Send becomes a logged
// no-op, which keeps local development working without a mail server.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewMailer builds a Mailer from environment variables.
func NewMailer() *Mailer {
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: envDefault("SMTP_PORT", "587"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: envDefault("MAIL_FROM", "no-reply@tablease.local"),
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers a single HTML mail.  Auth is skipped when no SMTP user
// is configured (e.g. a local relay).
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return nil
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
}

// VerificationMail renders the signup verification mail body around the
// link the frontend serves.
func VerificationMail(verifyURL string) string {
	return fmt.Sprintf(`<h2>Welcome to TablEase</h2>
<p>Please verify your email to activate your account.</p>
<a href=%q>Verify Email</a>
<p>This link expires in 30 minutes.</p>`, verifyURL)
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
