package console

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pixelvide/postcli/pkg/campaign"
	"github.com/pixelvide/postcli/pkg/config"
	"github.com/pixelvide/postcli/pkg/root"
)

// sendOptions are the flags of the send and schedule commands
type sendOptions struct {
	template      string
	role          string
	contacts      string
	subject       string
	fromName      string
	limit         string
	skipContacted bool
	mutate        bool
	dryRun        bool
	noResume      bool
	logFile       string
}

func (o *sendOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.template, "template", "", "Path to email template (optional if using --role)")
	f.StringVar(&o.role, "role", "", "Template role: fe | be | fullstack")
	f.StringVar(&o.contacts, "contacts", "", "Path to CSV contacts file (default: CONTACTS_FILE or contacts.csv)")
	f.StringVar(&o.subject, "subject", "", "Same subject for every email (default: the role's subject)")
	f.StringVar(&o.fromName, "from-name", "", "Display name for sender (default: EMAIL_ADDRESS)")
	f.StringVar(&o.limit, "limit", "0", "Max contacts to send to (0 = all)")
	f.BoolVar(&o.skipContacted, "skip-contacted", false, "Skip emails already in contacted.csv")
	f.BoolVar(&o.mutate, "mutate", false, "Append sent contacts to contacted.csv and remove them from the contacts file")
	f.BoolVar(&o.dryRun, "dry-run", false, "Preview emails without sending")
	f.BoolVar(&o.noResume, "no-resume", false, "Disable resume and send from the top of the list")
	f.StringVar(&o.logFile, "log-file", "", "Path to send log CSV (default: sent_log.csv next to contacts)")
}

func (o *sendOptions) runConfig(cfg *config.Config) (campaign.RunConfig, error) {
	limit, err := config.ParseLimit(o.limit)
	if err != nil {
		return campaign.RunConfig{}, fmt.Errorf("--limit: %w", err)
	}

	role := cfg.Role(o.role)

	contacts := cfg.ContactsPath()
	if o.contacts != "" {
		contacts = cfg.ResolvePath(o.contacts)
	}

	subject := o.subject
	if strings.TrimSpace(subject) == "" {
		subject = cfg.Subject(role)
	}

	rc := campaign.RunConfig{
		TemplatePath:  cfg.TemplatePath(role, o.template),
		ContactsPath:  contacts,
		Subject:       subject,
		FromName:      o.fromName,
		Limit:         limit,
		SkipContacted: o.skipContacted,
		Mutate:        o.mutate,
		DryRun:        o.dryRun,
		Resume:        !o.noResume,
		LogFile:       cfg.LogPath(contacts, o.logFile),
	}
	// Only an explicit role is recorded; a bare --template run is "custom"
	if o.role != "" {
		rc.Role = string(role)
	}
	return rc, nil
}

// defaultOptions are the flags of send-default, whose defaults come from the environment
type defaultOptions struct {
	role            string
	contacts        string
	subject         string
	fromName        string
	limit           string
	logFile         string
	dryRun          bool
	noSkipContacted bool
	noMutate        bool
	noResume        bool
}

func (o *defaultOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.role, "role", "", "Template role: fe | be | fullstack (default: POSTCLI_ROLE or fullstack)")
	f.StringVar(&o.contacts, "contacts", "", "Path to CSV contacts file (default: CONTACTS_FILE or contacts.csv)")
	f.StringVar(&o.subject, "subject", "", "Same subject for every email (default: the role's subject)")
	f.StringVar(&o.fromName, "from-name", "", "Display name for sender (default: FROM_NAME)")
	f.StringVar(&o.limit, "limit", "", "Max contacts to send to (default: SEND_LIMIT, 0 = all)")
	f.StringVar(&o.logFile, "log-file", "", "Path to send log CSV (default: SEND_LOG_FILE)")
	f.BoolVar(&o.dryRun, "dry-run", false, "Preview emails without sending")
	f.BoolVar(&o.noSkipContacted, "no-skip-contacted", false, "Include emails already present in contacted.csv")
	f.BoolVar(&o.noMutate, "no-mutate", false, "Do not write contacted.csv or rewrite the contacts file")
	f.BoolVar(&o.noResume, "no-resume", false, "Disable resume behavior")
}

func (o *defaultOptions) runConfig(cfg *config.Config) (campaign.RunConfig, error) {
	limit, err := cfg.Limit()
	if o.limit != "" {
		limit, err = config.ParseLimit(o.limit)
		if err != nil {
			err = fmt.Errorf("--limit: %w", err)
		}
	}
	if err != nil {
		return campaign.RunConfig{}, err
	}

	role := cfg.Role(o.role)

	contacts := cfg.ContactsPath()
	if o.contacts != "" {
		contacts = cfg.ResolvePath(o.contacts)
	}

	subject := o.subject
	if strings.TrimSpace(subject) == "" {
		subject = cfg.Subject(role)
	}

	fromName := o.fromName
	if fromName == "" {
		fromName = cfg.Mail.FromName
	}

	logFile := o.logFile
	if logFile == "" {
		logFile = cfg.Send.LogFile
	}

	return campaign.RunConfig{
		TemplatePath:  cfg.TemplatePath(role, ""),
		ContactsPath:  contacts,
		Subject:       subject,
		FromName:      fromName,
		Limit:         limit,
		SkipContacted: !o.noSkipContacted && cfg.Send.SkipContacted.Or(true),
		Mutate:        !o.noMutate && cfg.Send.Mutate.Or(true),
		DryRun:        o.dryRun,
		Resume:        !o.noResume && cfg.Send.Resume.Or(true),
		LogFile:       cfg.LogPath(contacts, logFile),
		Role:          string(role),
	}, nil
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the template to every contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rc, err := opts.runConfig(a.cfg)
			if err != nil {
				return err
			}
			return a.runCampaign(cmd, rc)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newSendDefaultCmd() *cobra.Command {
	opts := &defaultOptions{}
	cmd := &cobra.Command{
		Use:   "send-default",
		Short: "Send using project defaults from .env",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rc, err := opts.runConfig(a.cfg)
			if err != nil {
				return err
			}
			return a.runCampaign(cmd, rc)
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) runCampaign(cmd *cobra.Command, rc campaign.RunConfig) error {
	engine, err := a.engine(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	zerolog.Ctx(a.ctx).Info().Msgf("postcli %s", root.Version)
	summary, err := engine.Run(a.ctx, rc)
	if err != nil {
		return err
	}

	zerolog.Ctx(a.ctx).Debug().
		Str("run_id", summary.RunID).
		Int("sent", len(summary.Sent)).
		Int("previewed", summary.Previewed).
		Msg("Campaign finished")
	return nil
}

func init() {
	root.GetRoot().AddCommand(newSendCmd(), newSendDefaultCmd())
}
