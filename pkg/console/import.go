package console

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pixelvide/postcli/pkg/importer"
	"github.com/pixelvide/postcli/pkg/root"
)

func newImportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import <json_file>",
		Short: "Convert JSON to contacts.csv",
		Long:  `Convert JSON to a contacts CSV. Supports the YC founders format (company, founders[].name, companyEmails[]) or flat {name, company, email} objects.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			dst := a.cfg.ContactsPath()
			if output != "" {
				dst = a.cfg.ResolvePath(output)
			}

			n, err := importer.File(a.cfg.ResolvePath(args[0]), dst)
			if err != nil {
				return err
			}
			zerolog.Ctx(a.ctx).Info().Msgf("[ok] Wrote %d contact(s) to %s", n, dst)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default: project contacts.csv)")
	return cmd
}

func init() {
	root.GetRoot().AddCommand(newImportCmd())
}
