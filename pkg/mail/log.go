package mail

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogMailer implements Mailer by logging messages instead of delivering them
type LogMailer struct {
	address string
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(address string) *LogMailer {
	return &LogMailer{address: address}
}

// Verify always succeeds, there is nothing to connect to
func (m *LogMailer) Verify(ctx context.Context) error {
	log.Ctx(ctx).Debug().Str("mailer", "log").Msg("Transport verified")
	return nil
}

// Send logs the message details
func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	from := msg.From
	if from == "" {
		from = m.address
	}
	if msg.FromName != "" && from != "" {
		from = msg.FromName + " <" + from + ">"
	}

	logger := log.Ctx(ctx).With().
		Str("mailer", "log").
		Str("from", from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Logger()

	logger.Info().Msg("Sending email")
	logger.Info().Msgf("Body:\n%s", msg.Body)

	return nil
}
