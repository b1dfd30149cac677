package console

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pixelvide/postcli/pkg/root"
	"github.com/pixelvide/postcli/pkg/scaffold"
)

func newInitCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .env.example, contacts.csv, links.json and templates/ in the target directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			target := a.cfg.ResolvePath(dir)
			results, err := scaffold.Init(target)

			logger := zerolog.Ctx(a.ctx)
			for _, r := range results {
				if r.Created {
					logger.Info().Msgf("[ok] Created %s", filepath.Join(target, r.Path))
				} else {
					logger.Warn().Msgf("[skip] %s exists", r.Path)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to init")
	return cmd
}

func init() {
	root.GetRoot().AddCommand(newInitCmd())
}
