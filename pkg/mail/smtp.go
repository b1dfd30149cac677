package mail

import (
	"context"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/pixelvide/postcli/pkg/config"
)

// DialTimeout bounds connection setup for verify and send
const DialTimeout = 10 * time.Second

// SMTPMailer implements Mailer on top of gopkg.in/mail.v2.
// Every call dials a fresh connection; nothing is pooled between contacts.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) dialer() *gomail.Dialer {
	d := gomail.NewDialer(m.cfg.Server, m.cfg.Port, m.cfg.Address, m.cfg.Password)
	d.Timeout = DialTimeout
	d.StartTLSPolicy = gomail.OpportunisticStartTLS
	return d
}

// Verify dials, authenticates and closes the connection
func (m *SMTPMailer) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := m.dialer().Dial()
	if err != nil {
		return Wrap(err)
	}
	return Wrap(conn.Close())
}

// Send delivers msg over a new connection
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Wrap(m.dialer().DialAndSend(m.build(msg)))
}

func (m *SMTPMailer) build(msg *Message) *gomail.Message {
	from := msg.From
	if from == "" {
		from = m.cfg.Address
	}

	out := gomail.NewMessage()
	if msg.FromName != "" {
		out.SetAddressHeader("From", from, msg.FromName)
	} else {
		out.SetHeader("From", from)
	}
	out.SetHeader("To", msg.To)
	out.SetHeader("Subject", msg.Subject)
	out.SetBody("text/plain", msg.Body)

	return out
}
