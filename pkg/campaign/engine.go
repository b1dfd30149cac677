// Package campaign runs a send campaign: it filters a contact list through the exclusion
// list and the send log, renders the template per contact, delivers or previews each
// message in order and records every outcome.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pixelvide/postcli/pkg/contacts"
	"github.com/pixelvide/postcli/pkg/mail"
	"github.com/pixelvide/postcli/pkg/render"
	"github.com/pixelvide/postcli/pkg/sendlog"
)

const tracerName = "github.com/pixelvide/postcli/pkg/campaign"

// MailerFactory builds the transport for a live run. It is not called on dry runs.
type MailerFactory func() (mail.Mailer, error)

// ContactLoader reads the contact list for a run
type ContactLoader func(path string) ([]contacts.Contact, error)

// Engine executes runs. An Engine holds no per-run state and can be reused.
type Engine struct {
	newMailer MailerFactory
	load      ContactLoader
	mirrors   []sendlog.Mirror
	out       io.Writer
	now       func() time.Time
	runID     func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithMailer sets the transport factory used for live runs
func WithMailer(factory MailerFactory) Option {
	return func(e *Engine) { e.newMailer = factory }
}

// WithContactLoader replaces contacts.Load as the source of the contact list.
// Contacts from a custom loader are not validated, so empty emails reach the send loop.
func WithContactLoader(load ContactLoader) Option {
	return func(e *Engine) { e.load = load }
}

// WithMirrors forwards every send log row to the given mirrors
func WithMirrors(mirrors ...sendlog.Mirror) Option {
	return func(e *Engine) { e.mirrors = append(e.mirrors, mirrors...) }
}

// WithOutput sets where dry-run previews are printed
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithClock overrides the time source for log timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRunID overrides the run id generator
func WithRunID(fn func() string) Option {
	return func(e *Engine) { e.runID = fn }
}

// New creates an Engine
func New(opts ...Option) *Engine {
	e := &Engine{
		newMailer: func() (mail.Mailer, error) { return nil, ErrNoMailer },
		load:      contacts.Load,
		out:       os.Stdout,
		now:       time.Now,
		runID:     sendlog.NewRunID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summary describes what a run did. It is returned even when the run fails.
type Summary struct {
	RunID            string
	CampaignKey      string
	LogPath          string
	State            State
	Loaded           int
	SkippedContacted int
	SkippedResumed   int
	SkippedEmpty     int
	Selected         int // contacts left after filtering and the limit
	Previewed        int
	Sent             []contacts.Contact
}

// run holds the state of one invocation
type run struct {
	*Engine
	cfg      RunConfig
	subject  string
	ledger   *sendlog.Ledger
	summary  *Summary
	template *render.Template
	mailer   mail.Mailer
	logger   zerolog.Logger
}

// Run executes one campaign run. The returned error message is meant for the operator.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*Summary, error) {
	r := &run{
		Engine:  e,
		cfg:     cfg,
		subject: strings.TrimSpace(cfg.Subject),
		ledger:  sendlog.NewLedger(cfg.LogPath(), e.mirrors...),
		summary: &Summary{
			RunID:       e.runID(),
			CampaignKey: cfg.CampaignKey(),
			LogPath:     cfg.LogPath(),
			State:       StateLoading,
		},
	}
	r.logger = zerolog.Ctx(ctx).With().Str("run_id", r.summary.RunID).Logger()
	ctx = r.logger.WithContext(ctx)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "campaign.run", trace.WithAttributes(
		attribute.String("campaign.key", r.summary.CampaignKey),
		attribute.String("campaign.run_id", r.summary.RunID),
		attribute.Bool("campaign.dry_run", cfg.DryRun),
	))
	defer span.End()

	err := r.execute(ctx)
	if err != nil {
		r.transition(StateFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		r.transition(StateDone)
	}
	span.SetAttributes(attribute.Int("campaign.sent", len(r.summary.Sent)))

	return r.summary, err
}

func (r *run) transition(s State) {
	r.summary.State = s
	r.logger.Debug().Stringer("state", s).Msg("Campaign state")
}

func (r *run) execute(ctx context.Context) error {
	if _, err := os.Stat(r.cfg.TemplatePath); err != nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, r.cfg.TemplatePath)
	}
	if _, err := os.Stat(r.cfg.ContactsPath); err != nil {
		return fmt.Errorf("%w: %s", ErrContactsNotFound, r.cfg.ContactsPath)
	}

	all, err := r.load(r.cfg.ContactsPath)
	if err != nil {
		return err
	}
	r.summary.Loaded = len(all)
	if len(all) == 0 {
		r.logger.Warn().Msg("No contacts in CSV.")
		return nil
	}

	r.transition(StateFiltering)
	if r.subject == "" {
		return ErrEmptySubject
	}

	selected, err := r.filter(ctx, all)
	if err != nil {
		return err
	}
	r.summary.Selected = len(selected)
	if len(selected) == 0 {
		r.logger.Warn().Msg("No contacts left to send after filters.")
		return nil
	}
	r.announce()

	r.transition(StateValidating)
	if r.template, err = render.Compile(r.cfg.TemplatePath); err != nil {
		return err
	}
	r.logger.Info().Msg("[ok] Template validated")

	if !r.cfg.DryRun {
		r.transition(StateConnecting)
		if err := r.connect(ctx); err != nil {
			return err
		}
	} else {
		r.logger.Info().Msg("[info] Dry run mode - no emails sent")
	}

	r.transition(StateSending)
	if err := r.send(ctx, selected); err != nil {
		return err
	}

	r.transition(StateFinalizing)
	return r.finalize(all)
}

// filter applies the contacted list, then resume, then the limit
func (r *run) filter(ctx context.Context, rows []contacts.Contact) ([]contacts.Contact, error) {
	if r.cfg.SkipContacted {
		contacted := contacts.LoadExclusionSet(r.cfg.ContactsPath)
		kept, skipped, err := r.exclude(ctx, rows, contacted, sendlog.ReasonAlreadyContacted)
		if err != nil {
			return nil, err
		}
		rows = kept
		r.summary.SkippedContacted = skipped
	}

	if r.cfg.Resume {
		sent := r.ledger.SentEmails(r.summary.CampaignKey)
		kept, skipped, err := r.exclude(ctx, rows, sent, sendlog.ReasonAlreadySent)
		if err != nil {
			return nil, err
		}
		rows = kept
		r.summary.SkippedResumed = skipped
	}

	if r.cfg.Limit > 0 && len(rows) > r.cfg.Limit {
		rows = rows[:r.cfg.Limit]
	}
	return rows, nil
}

func (r *run) exclude(ctx context.Context, rows []contacts.Contact, set map[string]struct{}, reason string) ([]contacts.Contact, int, error) {
	if len(set) == 0 {
		return rows, 0, nil
	}

	kept := make([]contacts.Contact, 0, len(rows))
	skipped := 0
	for _, c := range rows {
		if _, ok := set[c.Email]; !ok {
			kept = append(kept, c)
			continue
		}
		skipped++
		if err := r.record(ctx, c, sendlog.StatusSkipped, reason); err != nil {
			return nil, 0, err
		}
	}
	return kept, skipped, nil
}

func (r *run) announce() {
	r.logger.Info().Str("subject", r.subject).Str("log_file", r.summary.LogPath).Msg("Starting campaign")
	if n := r.summary.SkippedContacted; n > 0 {
		r.logger.Info().Msgf("Skipped %d already in %s", n, contacts.ContactedFile)
	}
	if n := r.summary.SkippedResumed; n > 0 {
		r.logger.Info().Msgf("Resumed: skipped %d already-sent contact(s)", n)
	}
	if r.cfg.Limit > 0 {
		r.logger.Info().Msgf("Limited to %d contact(s)", r.cfg.Limit)
	}
	r.logger.Info().Msgf("[ok] Loaded %d contact(s)", r.summary.Selected)
}

func (r *run) connect(ctx context.Context) error {
	mailer, err := r.newMailer()
	if err != nil {
		return err
	}

	if err := mailer.Verify(ctx); err != nil {
		if mail.IsAuth(err) {
			return &AuthFailedError{Err: err}
		}
		return fmt.Errorf("SMTP error: %w", err)
	}

	r.mailer = mailer
	r.logger.Info().Msg("[ok] SMTP connected")
	return nil
}

func (r *run) send(ctx context.Context, selected []contacts.Contact) error {
	links := render.LoadLinks(filepath.Dir(r.cfg.ContactsPath))
	fromName := strings.TrimSpace(r.cfg.FromName)
	total := len(selected)

	for i, c := range selected {
		body, err := r.template.Render(render.Bindings(links, c))
		if err != nil {
			if logErr := r.record(ctx, c, sendlog.StatusFailed, sendlog.ReasonTemplateRender); logErr != nil {
				return logErr
			}
			var tplErr *render.TemplateError
			if errors.As(err, &tplErr) && tplErr.Email == "" {
				tplErr.Email = "?"
			}
			return err
		}

		to := strings.TrimSpace(c.Email)
		if to == "" {
			r.summary.SkippedEmpty++
			if err := r.record(ctx, c, sendlog.StatusSkipped, sendlog.ReasonEmptyEmail); err != nil {
				return err
			}
			continue
		}

		if r.cfg.DryRun {
			title := fmt.Sprintf("To: %s | Subject: %s", to, r.subject)
			if err := writePreview(r.out, title, body); err != nil {
				return err
			}
			r.summary.Previewed++
			if err := r.record(ctx, c, sendlog.StatusDryRun, ""); err != nil {
				return err
			}
			continue
		}

		if err := r.deliver(ctx, i+1, total, c, to, fromName, body); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) deliver(ctx context.Context, index, total int, c contacts.Contact, to, fromName, body string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "campaign.deliver", trace.WithAttributes(
		attribute.String("mail.to", to),
		attribute.Int("campaign.index", index),
	))
	defer span.End()

	started := time.Now()
	err := r.mailer.Send(ctx, &mail.Message{
		FromName: fromName,
		To:       to,
		Subject:  r.subject,
		Body:     body,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if logErr := r.record(ctx, c, sendlog.StatusFailed, err.Error()); logErr != nil {
			return logErr
		}
		if mail.IsAuth(err) {
			return &AuthFailedError{Err: err}
		}
		return &SendFailedError{Index: index, Total: total, Email: to, Err: err}
	}

	r.logger.Info().Msgf("[ok] [%d/%d] Sent to %s (%dms)", index, total, to, time.Since(started).Milliseconds())
	r.summary.Sent = append(r.summary.Sent, c)
	return r.record(ctx, c, sendlog.StatusSent, "")
}

// finalize moves sent contacts to the exclusion list and drops them from the contacts file
func (r *run) finalize(all []contacts.Contact) error {
	if r.cfg.DryRun || len(r.summary.Sent) == 0 || !r.cfg.Mutate {
		return nil
	}

	contactedPath := contacts.ContactedPath(r.cfg.ContactsPath)
	if err := contacts.AppendExclusion(contactedPath, r.summary.Sent); err != nil {
		return err
	}

	sent := make(map[string]struct{}, len(r.summary.Sent))
	for _, c := range r.summary.Sent {
		sent[c.Email] = struct{}{}
	}
	remaining := make([]contacts.Contact, 0, len(all))
	for _, c := range all {
		if _, ok := sent[c.Email]; !ok {
			remaining = append(remaining, c)
		}
	}
	if err := contacts.Write(r.cfg.ContactsPath, remaining); err != nil {
		return err
	}

	r.logger.Info().Msgf("[ok] Moved %d contact(s) to %s", len(r.summary.Sent), contactedPath)
	return nil
}

func (r *run) record(ctx context.Context, c contacts.Contact, status sendlog.Status, reason string) error {
	return r.ledger.Append(ctx, sendlog.Row{
		Timestamp:   sendlog.FormatTimestamp(r.now()),
		RunID:       r.summary.RunID,
		CampaignKey: r.summary.CampaignKey,
		Email:       c.Email,
		Name:        c.Name,
		Company:     c.Company,
		Template:    filepath.Base(r.cfg.TemplatePath),
		Role:        r.cfg.role(),
		Subject:     r.subject,
		Status:      status,
		Error:       reason,
	})
}
