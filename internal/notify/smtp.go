package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer delivers notifications through a plain SMTP relay. Hospital
// deployments sit behind an internal relay, so no auth or TLS negotiation
// happens here.
type SMTPMailer struct {
	addr string
	from string
	send func(addr, from string, to []string, msg []byte) error
}

func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: addr,
		from: from,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (m *SMTPMailer) Send(_ context.Context, to []string, kind TemplateKind, payload Payload) error {
	if len(to) == 0 {
		return nil
	}
	subject, body := Render(kind, payload)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, strings.Join(to, ", "), subject, body)
	if err := m.send(m.addr, m.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
