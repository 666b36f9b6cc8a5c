package config

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// Mailer sends HTML mail over SMTP.
type Mailer struct {
	host          string
	port          int
	user          string
	pass          string
	from          string // e.g. "Funding Desk <no-reply@your.org>"
	skipTLSVerify bool
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{
		host:          cfg.Host,
		port:          cfg.Port,
		user:          cfg.User,
		pass:          cfg.Pass,
		from:          cfg.From,
		skipTLSVerify: cfg.SkipTLSVerify,
	}
}

// Configured reports whether enough SMTP settings exist to send mail.
func (m *Mailer) Configured() bool {
	return m != nil && m.host != "" && m.from != ""
}

func (m *Mailer) SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !m.Configured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify, // dev only
	}

	return d.DialAndSend(msg)
}
