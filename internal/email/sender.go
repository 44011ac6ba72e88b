// Package email sends transactional mail (sign-in links).
package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Sender interface {
	Send(to, subject, html string) error
}

// SMTPSender delivers through a plain SMTP relay (MailHog in development).
type SMTPSender struct {
	Addr string
	From string
}

func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{Addr: addr, From: from}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		s.From, to, subject, html)
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender writes mail to the log instead of delivering it. Used in tests
// and when no relay is configured.
type LogSender struct {
	Log zerolog.Logger
}

func (l LogSender) Send(to, subject, html string) error {
	l.Log.Info().Str("to", to).Str("subject", subject).Msg(html)
	return nil
}
