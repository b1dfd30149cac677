package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pixelvide/postcli/pkg/campaign"
	"github.com/pixelvide/postcli/pkg/database"
	redisdriver "github.com/pixelvide/postcli/pkg/driver/redis"
	"github.com/pixelvide/postcli/pkg/root"
	"github.com/pixelvide/postcli/pkg/schedule"
)

func newScheduleCmd() *cobra.Command {
	opts := &sendOptions{}
	var spec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the send campaign on a cron schedule",
		Long: `Run the send campaign on a cron schedule until interrupted. Every tick is a full
run with its own run id, so resume picks up whatever earlier ticks left unsent.
Ticks never overlap; with SCHEDULE_LOCK=redis or database only one process runs each tick.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec == "" {
				return errors.New("--cron is required")
			}

			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rc, err := opts.runConfig(a.cfg)
			if err != nil {
				return err
			}
			engine, err := a.engine(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			lockProvider, err := a.lockProvider()
			if err != nil {
				return err
			}
			logger := zerolog.Ctx(a.ctx)

			kernel := schedule.NewKernel(lockProvider, *logger)
			task := func(ctx context.Context) error {
				return runTick(ctx, engine, rc)
			}
			if err := kernel.Register(spec, task, schedule.WithoutOverlapping(), schedule.OnOneServer(rc.CampaignKey())); err != nil {
				return fmt.Errorf("invalid --cron %q: %w", spec, err)
			}

			ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			kernel.Run(ctx)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&spec, "cron", "", `Cron spec, e.g. "0 9 * * 1-5" or "@hourly" (a leading seconds field is allowed)`)
	return cmd
}

func runTick(ctx context.Context, engine *campaign.Engine, rc campaign.RunConfig) error {
	summary, err := engine.Run(ctx, rc)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().
		Str("run_id", summary.RunID).
		Int("sent", len(summary.Sent)).
		Int("selected", summary.Selected).
		Msg("Scheduled run finished")
	return nil
}

// lockProvider builds the distributed lock selected by SCHEDULE_LOCK
func (a *app) lockProvider() (schedule.LockProvider, error) {
	logger := zerolog.Ctx(a.ctx)

	switch a.cfg.Lock {
	case "", "none":
		logger.Info().Msg("No distributed lock provider configured. Runs are only serialized within this process.")
		return nil, nil
	case "redis":
		client := redisdriver.NewClient(a.cfg.Redis)
		a.onClose(client.Close)
		if err := redisdriver.Ping(a.ctx, client); err != nil {
			return nil, err
		}
		return schedule.NewRedisLockProvider(client), nil
	case "database":
		db, err := database.NewFactory().Connect(a.ctx, a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database for scheduler lock: %w", err)
		}
		a.onClose(db.Close)
		provider, err := schedule.NewDatabaseLockProvider(db, a.cfg.Database.Connection)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported SCHEDULE_LOCK: %s", a.cfg.Lock)
	}
}

func init() {
	root.GetRoot().AddCommand(newScheduleCmd())
	root.GetRoot().PersistentFlags().Bool("trace", false, "Print OpenTelemetry spans to stderr (or set TRACE=true)")
}
