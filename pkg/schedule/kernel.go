package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultLockTTL bounds how long a crashed process can hold a distributed lock
const DefaultLockTTL = 30 * time.Minute

// Parser accepts standard five-field specs, an optional leading seconds field and descriptors such as @hourly
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Kernel manages scheduled tasks
type Kernel struct {
	cron         *cron.Cron
	lockProvider LockProvider
	logger       zerolog.Logger
	ctx          context.Context
}

// JobOption configures a scheduled job
type JobOption func(*jobConfig)

type jobConfig struct {
	withoutOverlapping bool
	onOneServer        bool
	name               string
	lockTTL            time.Duration
}

// NewKernel creates a new scheduler kernel
func NewKernel(lockProvider LockProvider, logger zerolog.Logger) *Kernel {
	return &Kernel{
		cron: cron.New(
			cron.WithParser(Parser),
			cron.WithLogger(cronLogger{logger}),
		),
		lockProvider: lockProvider,
		logger:       logger,
		ctx:          context.Background(),
	}
}

// WithoutOverlapping prevents the job from running if the previous instance is still running (local only)
func WithoutOverlapping() JobOption {
	return func(c *jobConfig) {
		c.withoutOverlapping = true
	}
}

// OnOneServer ensures the job runs on only one server at a time (distributed lock)
func OnOneServer(name string) JobOption {
	return func(c *jobConfig) {
		c.onOneServer = true
		c.name = name
	}
}

// WithLockTTL overrides DefaultLockTTL for OnOneServer jobs
func WithLockTTL(ttl time.Duration) JobOption {
	return func(c *jobConfig) {
		c.lockTTL = ttl
	}
}

// Register adds a task to be run on the given schedule
func (k *Kernel) Register(spec string, task Task, opts ...JobOption) error {
	cfg := &jobConfig{lockTTL: DefaultLockTTL}
	for _, opt := range opts {
		opt(cfg)
	}

	if _, err := k.cron.AddJob(spec, k.job(task, cfg)); err != nil {
		return err
	}
	k.logger.Info().Str("job", cfg.name).Str("schedule", spec).Msg("Registered cron job")
	return nil
}

func (k *Kernel) job(task Task, cfg *jobConfig) cron.Job {
	var job cron.Job = cron.FuncJob(func() {
		if err := task(k.ctx); err != nil {
			k.logger.Error().Err(err).Str("job", cfg.name).Msg("Scheduled run failed")
		}
	})

	if cfg.onOneServer {
		if k.lockProvider == nil {
			k.logger.Warn().Str("job", cfg.name).Msg("Ignoring OnOneServer: no lock provider configured")
		} else {
			job = k.locked(job, cfg)
		}
	}

	// Outermost, so a tick skipped locally never touches the lock
	if cfg.withoutOverlapping {
		job = cron.SkipIfStillRunning(cronLogger{k.logger})(job)
	}
	return job
}

func (k *Kernel) locked(next cron.Job, cfg *jobConfig) cron.Job {
	return cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(k.ctx, 10*time.Second)
		acquired, err := k.lockProvider.GetLock(ctx, cfg.name, cfg.lockTTL)
		cancel()

		if err != nil {
			k.logger.Error().Err(err).Str("job", cfg.name).Msg("Error checking lock")
			return
		}
		if !acquired {
			k.logger.Info().Str("job", cfg.name).Msg("Skipping run: locked by another server")
			return
		}

		defer func() {
			if err := k.lockProvider.ReleaseLock(context.Background(), cfg.name); err != nil {
				k.logger.Warn().Err(err).Str("job", cfg.name).Msg("Failed to release lock")
			}
		}()
		next.Run()
	})
}

// Run starts the scheduler and blocks until ctx is cancelled and running jobs finish
func (k *Kernel) Run(ctx context.Context) {
	k.ctx = ctx
	k.logger.Info().Msg("Starting Task Scheduler...")
	k.cron.Start()

	<-ctx.Done()

	k.logger.Info().Msg("Stopping Task Scheduler...")
	<-k.cron.Stop().Done()
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
