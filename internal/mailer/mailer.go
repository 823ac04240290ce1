// Package mailer delivers contact submissions over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/Zachkp/folio/config"
	"github.com/Zachkp/folio/internal/contact"
)

// ErrNotConfigured is returned by Send when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// SendFunc has the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

var bodyTmpl = template.Must(template.New("body").Parse(`New contact form submission from your portfolio:

Name: {{.Name}}
Email: {{.Email}}
Message:
{{.Message}}

---
Submission {{.ID}} at {{.Timestamp.Format "2006-01-02 15:04:05 MST"}}
`))

type Mailer struct {
	cfg  config.SMTP
	log  *zap.Logger
	send SendFunc
}

// New returns a Mailer. A nil send uses smtp.SendMail.
func New(cfg config.SMTP, log *zap.Logger, send SendFunc) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	if send == nil {
		send = smtp.SendMail
	}
	return &Mailer{cfg: cfg, log: log, send: send}
}

func (m *Mailer) IsConfigured() bool {
	return m.cfg.Configured()
}

// Send mails one submission to the configured inbox with Reply-To set to the
// visitor. net/smtp has no context support; ctx is only checked up front.
func (m *Mailer) Send(ctx context.Context, s contact.Submission) error {
	if !m.IsConfigured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.compose(s)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.cfg.Addr(), auth, m.cfg.Username, []string{m.cfg.To}, msg); err != nil {
		m.log.Error("error sending email",
			zap.String("submission_id", s.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("sending mail: %w", err)
	}

	m.log.Info("email sent", zap.String("submission_id", s.ID.String()))
	return nil
}

func (m *Mailer) compose(s contact.Submission) ([]byte, error) {
	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, s); err != nil {
		return nil, fmt.Errorf("rendering mail body: %w", err)
	}

	var msg bytes.Buffer
	header := func(k, v string) {
		msg.WriteString(k + ": " + headerValue(v) + "\r\n")
	}
	header("To", m.cfg.To)
	header("From", m.cfg.Username)
	header("Reply-To", s.Email)
	header("Subject", s.Payload().Subject)
	header("Content-Type", "text/plain; charset=UTF-8")
	msg.WriteString("\r\n")
	text := strings.ReplaceAll(body.String(), "\r\n", "\n")
	msg.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))
	return msg.Bytes(), nil
}

// headerValue strips line breaks so visitor input cannot add headers.
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
