package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

var ErrNotConfigured = errors.New("smtp configuration incomplete")

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string, logger *zap.Logger) *EmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		logger:   logger,
	}
	s.dialer = gomail.NewDialer(host, port, user, password)
	return s
}

// WithDialer swaps the SMTP dialer (tests).
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

// SendEmail sends the draft as plain text with an HTML alternative. It
// returns (true, nil) only when the SMTP server accepted the message.
func (s *EmailSender) SendEmail(ctx context.Context, subject, body string, to usecase.Recipient) (bool, error) {
	if s.User == "" || s.Password == "" || s.From == "" {
		return false, ErrNotConfigured
	}
	if strings.TrimSpace(to.Email) == "" {
		return false, fmt.Errorf("recipient %s has no email address", to.LeadID)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	htmlBody, err := renderHTML(OutreachEmailData{Name: to.Name, Paragraphs: paragraphs(body)})
	if err != nil {
		return false, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetAddressHeader("To", to.Email, strings.TrimSpace(to.Name))
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return false, fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	s.logger.Info("📧 email sent", zap.String("lead_id", to.LeadID), zap.String("to", to.Email))
	return true, nil
}

var outreachTemplate = template.Must(template.New("outreach").Parse(
	`<html><body>{{range .Paragraphs}}<p>{{.}}</p>{{end}}</body></html>`))

func renderHTML(data OutreachEmailData) (string, error) {
	var buf bytes.Buffer
	if err := outreachTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return buf.String(), nil
}

func paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
