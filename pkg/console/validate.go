package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelvide/postcli/pkg/contacts"
	"github.com/pixelvide/postcli/pkg/mail"
	"github.com/pixelvide/postcli/pkg/render"
	"github.com/pixelvide/postcli/pkg/root"
)

// errChecksFailed is returned after validate has printed its failures
var errChecksFailed = errors.New("validation failed")

type validateOptions struct {
	template string
	role     string
	contacts string
	links    bool
	smtp     bool
}

// report collects check outcomes; successes print before failures
type report struct {
	ok   []string
	errs []string
}

func (r *report) pass(format string, args ...any) { r.ok = append(r.ok, fmt.Sprintf(format, args...)) }
func (r *report) fail(format string, args ...any) { r.errs = append(r.errs, fmt.Sprintf(format, args...)) }

func (r *report) print(w io.Writer) {
	for _, m := range r.ok {
		fmt.Fprintf(w, "[ok] %s\n", m)
	}
	for _, m := range r.errs {
		fmt.Fprintf(w, "[err] %s\n", m)
	}
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the template, contacts, links.json and SMTP settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.validate(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.template, "template", "", "Path to email template")
	f.StringVar(&opts.role, "role", "", "Template role to validate when no selector is given")
	f.StringVar(&opts.contacts, "contacts", "", "Path to CSV contacts file")
	f.BoolVar(&opts.links, "links", false, "Validate links.json")
	f.BoolVar(&opts.smtp, "smtp", false, "Validate SMTP config (connect only, no send)")
	return cmd
}

func (a *app) validate(w io.Writer, opts *validateOptions) error {
	var template, contactsPath string
	if opts.template != "" {
		template = a.cfg.ResolvePath(opts.template)
	}
	if opts.contacts != "" {
		contactsPath = a.cfg.ResolvePath(opts.contacts)
	}
	links, smtp := opts.links, opts.smtp

	if template == "" && contactsPath == "" && !links && !smtp {
		template = a.cfg.TemplatePath(a.cfg.Role(opts.role), "")
		contactsPath = a.cfg.ContactsPath()
		links, smtp = true, true
	}

	r := &report{}

	if template != "" {
		if _, err := os.Stat(template); err != nil {
			r.fail("Template not found: %s", template)
		} else if _, err := render.Render(template, render.SampleBindings()); err != nil {
			r.fail("%v", err)
		} else {
			r.pass("Template OK: %s", template)
		}
	}

	if contactsPath != "" {
		if _, err := os.Stat(contactsPath); err != nil {
			r.fail("Contacts file not found: %s", contactsPath)
		} else if rows, err := contacts.Load(contactsPath); err != nil {
			r.fail("Contacts error: %v", err)
		} else {
			r.pass("Contacts OK: %d row(s) in %s", len(rows), contactsPath)
		}
	}

	if links {
		path, found, err := render.CheckLinks(a.cfg.Home)
		switch {
		case !found:
			fmt.Fprintf(w, "links.json not found at %s (optional)\n", path)
		case err != nil:
			r.fail("links.json invalid: %v", err)
		default:
			r.pass("links.json OK: %s", path)
		}
	}

	if smtp {
		if err := a.verifySMTP(); err != nil {
			if mail.IsAuth(err) {
				r.fail("SMTP auth failed. Check EMAIL_ADDRESS and EMAIL_PASSWORD.")
			} else {
				r.fail("SMTP error: %v", err)
			}
		} else {
			r.pass("SMTP OK")
		}
	}

	r.print(w)
	if len(r.errs) > 0 {
		return errChecksFailed
	}
	return nil
}

func (a *app) verifySMTP() error {
	mailer, err := mail.NewMailer(a.cfg.Mail)
	if err != nil {
		return err
	}
	return mailer.Verify(a.ctx)
}

func init() {
	root.GetRoot().AddCommand(newValidateCmd())
}
