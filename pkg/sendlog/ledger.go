package sendlog

import (
	"context"

	"github.com/rs/zerolog"
)

// Mirror receives a copy of every appended row. Mirrors are secondary: the CSV file
// stays the source of truth for resume.
type Mirror interface {
	Push(ctx context.Context, row Row) error
}

// Ledger appends rows to the CSV log and forwards them to optional mirrors
type Ledger struct {
	path    string
	mirrors []Mirror
}

// NewLedger creates a Ledger writing to path
func NewLedger(path string, mirrors ...Mirror) *Ledger {
	return &Ledger{path: path, mirrors: mirrors}
}

// Path returns the CSV log path
func (l *Ledger) Path() string {
	return l.path
}

// Append writes the row to the CSV log. Mirror failures are logged and otherwise ignored.
func (l *Ledger) Append(ctx context.Context, row Row) error {
	if err := Append(l.path, row); err != nil {
		return err
	}

	for _, m := range l.mirrors {
		if err := m.Push(ctx, row); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("email", row.Email).
				Str("status", string(row.Status)).
				Msg("Failed to mirror send log row")
		}
	}
	return nil
}

// SentEmails returns the emails already sent for campaignKey according to the CSV log
func (l *Ledger) SentEmails(campaignKey string) map[string]struct{} {
	return SentEmails(l.path, campaignKey)
}
