package mail

import (
	"fmt"

	"github.com/pixelvide/postcli/pkg/config"
)

// NewMailer creates a new Mailer based on the configuration
func NewMailer(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Mailer {
	case "", "smtp":
		smtpCfg, err := cfg.SMTP()
		if err != nil {
			return nil, err
		}
		return NewSMTPMailer(smtpCfg), nil
	case "log":
		return NewLogMailer(cfg.Address), nil
	default:
		return nil, fmt.Errorf("unsupported mailer: %s", cfg.Mailer)
	}
}
