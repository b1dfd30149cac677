package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/pixelvide/postcli/pkg/campaign"
	"github.com/pixelvide/postcli/pkg/config"
	"github.com/pixelvide/postcli/pkg/database"
	dbmirror "github.com/pixelvide/postcli/pkg/driver/database"
	redismirror "github.com/pixelvide/postcli/pkg/driver/redis"
	sqsmirror "github.com/pixelvide/postcli/pkg/driver/sqs"
	"github.com/pixelvide/postcli/pkg/mail"
	"github.com/pixelvide/postcli/pkg/root"
	"github.com/pixelvide/postcli/pkg/sendlog"
	"github.com/pixelvide/postcli/pkg/telemetry"
)

// app is what every command needs once the environment has been read
type app struct {
	cfg     *config.Config
	ctx     context.Context
	closers []func() error
}

// bootstrap loads configuration, installs the logger and, when enabled, the tracer
func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	telemetry.SetGlobalLogger(cfg.Log.Level, cfg.Log.Format)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a := &app{cfg: cfg, ctx: log.Logger.WithContext(ctx)}

	trace := cfg.Trace.Or(false)
	if f := cmd.Flag("trace"); f != nil && f.Changed {
		trace = f.Value.String() == "true"
	}
	if trace {
		tp, err := telemetry.InitTracer("postcli", root.Version, os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		a.onClose(func() error { return shutdownTracer(tp) })
	}

	return a, nil
}

func shutdownTracer(tp *sdktrace.TracerProvider) error {
	return tp.Shutdown(context.Background())
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases everything bootstrap and the builders opened, newest first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zerolog.Ctx(a.ctx).Warn().Err(err).Msg("Error during shutdown")
		}
	}
	a.closers = nil
}

// engine builds a campaign engine wired to the configured transport and send log mirror
func (a *app) engine(out io.Writer) (*campaign.Engine, error) {
	opts := []campaign.Option{
		campaign.WithOutput(out),
		campaign.WithMailer(func() (mail.Mailer, error) {
			return mail.NewMailer(a.cfg.Mail)
		}),
	}

	mirror, err := a.mirror()
	if err != nil {
		return nil, err
	}
	if mirror != nil {
		opts = append(opts, campaign.WithMirrors(mirror))
	}

	return campaign.New(opts...), nil
}

// mirror connects the secondary send log sink selected by SEND_LOG_MIRROR
func (a *app) mirror() (sendlog.Mirror, error) {
	logger := zerolog.Ctx(a.ctx)

	switch a.cfg.Mirror {
	case "", "none":
		return nil, nil
	case "redis":
		m := redismirror.NewMirror(a.cfg.Redis)
		a.onClose(m.Close)
		if err := m.Ping(a.ctx); err != nil {
			return nil, err
		}
		logger.Debug().Str("addr", a.cfg.Redis.Addr).Msg("Mirroring send log to redis")
		return m, nil
	case "database":
		db, err := database.NewFactory().Connect(a.ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.onClose(db.Close)
		logger.Debug().Str("table", a.cfg.Database.Table).Msg("Mirroring send log to database")
		return dbmirror.NewMirror(a.cfg.Database, db), nil
	case "sqs":
		client, err := config.LoadSQSClient(a.ctx, a.cfg.SQS)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("queue_url", a.cfg.SQS.QueueUrl).Msg("Mirroring send log to sqs")
		return sqsmirror.NewMirror(client, a.cfg.SQS.QueueUrl)
	default:
		return nil, fmt.Errorf("unsupported SEND_LOG_MIRROR: %s", a.cfg.Mirror)
	}
}
