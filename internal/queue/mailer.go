package queue

import (
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/myroutine-backend/internal/config"
)

// Mailer delivers EmailMessages over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (m *Mailer) Deliver(msg EmailMessage) error {
	return m.dialer.DialAndSend(m.compose(msg))
}

func (m *Mailer) compose(msg EmailMessage) *gomail.Message {
	out := gomail.NewMessage()
	out.SetHeader("From", m.from)
	out.SetHeader("To", msg.To)
	out.SetHeader("Subject", msg.Subject)
	out.SetBody("text/html", msg.HTMLBody)
	return out
}
