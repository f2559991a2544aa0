package email

import (
	"context"
	"fmt"
	"net/smtp"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers plain email. The no-op implementation is used when SMTP is
// not configured.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type SMTPProvider struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s", to[0], subject, body))

	return smtp.SendMail(addr, auth, p.cfg.From, to, msg)
}

type NoopProvider struct{}

func NewNoop() *NoopProvider { return &NoopProvider{} }

func (p *NoopProvider) Send(ctx context.Context, to []string, subject, body string) error {
	return nil
}
