// Package factory wires the real dependencies behind cmdutil.Factory.
package factory

import (
	"context"
	"fmt"
	"sync"

	"pnodev/internal/cmdutil"
	"pnodev/internal/config"
	"pnodev/internal/core/tx"
	"pnodev/internal/generate"
	"pnodev/internal/infrastructure/photo"
	"pnodev/internal/infrastructure/storage/memory"
	"pnodev/internal/infrastructure/storage/postgres"
	"pnodev/internal/seed"
	"pnodev/pkg/logger"
)

var (
	_ generate.Store = (*postgres.Store)(nil)
	_ generate.Store = (*memory.Store)(nil)
)

// New creates a Factory with lazily initialized dependencies. Only the CLI
// entry point calls it; command tests build cmdutil.Factory directly.
func New(version string) *cmdutil.Factory {
	opts := &cmdutil.GlobalOptions{}
	f := &cmdutil.Factory{
		Version:   version,
		IOStreams: cmdutil.System(),
		Options:   opts,
	}

	// Config
	var (
		configOnce sync.Once
		cfg        *config.Config
		configErr  error
	)
	f.Config = func() (*config.Config, error) {
		configOnce.Do(func() {
			cfg, configErr = config.NewLoader(opts.ConfigFile).Load()
			if configErr == nil {
				applyOverrides(cfg, opts)
				configErr = cfg.Validate()
			}
		})
		return cfg, configErr
	}

	// Logger
	var (
		logOnce sync.Once
		log     *logger.Logger
		logErr  error
	)
	f.Logger = func() (*logger.Logger, error) {
		logOnce.Do(func() {
			c, err := f.Config()
			if err != nil {
				logErr = err
				return
			}
			log, logErr = logger.New(logger.Config{
				Level:       c.Log.Level,
				Development: c.Log.Development,
				OutputPaths: []string{"stderr"},
				File:        c.Log.File,
				MaxSizeMB:   c.Log.MaxSizeMB,
				MaxBackups:  c.Log.MaxBackups,
			})
		})
		return log, logErr
	}

	// Database
	var (
		poolOnce sync.Once
		pool     *postgres.Pool
		poolErr  error
	)
	openPool := func(ctx context.Context, c *config.Config) (*postgres.Pool, error) {
		poolOnce.Do(func() {
			pc := postgres.DefaultPoolConfig(c.Database.URL)
			pc.MaxConns = c.Database.MaxConns
			pool, poolErr = postgres.NewPool(ctx, pc)
		})
		return pool, poolErr
	}

	f.Service = func(ctx context.Context) (*generate.Service, error) {
		c, err := f.Config()
		if err != nil {
			return nil, err
		}
		l, err := f.Logger()
		if err != nil {
			return nil, err
		}

		var (
			store generate.Store
			txm   tx.Manager
		)
		if opts.DryRun {
			store, txm = memory.New(), tx.Nop{}
			l.Infow("dry run: writing to an in-memory store")
		} else {
			p, err := openPool(ctx, c)
			if err != nil {
				return nil, fmt.Errorf("connect database: %w", err)
			}
			tm := postgres.NewTxManager(p).WithStatementTimeout(c.Database.StatementTimeout)
			store, txm = postgres.NewStore(tm), tm
		}

		source := seed.NewSource(c.Seed.Seed)
		l.Infow("random seed", "seed", source.Seed())

		svcOpts := []generate.Option{
			generate.WithTxManager(txm),
			generate.WithLogger(l),
			generate.WithSettings(generate.Settings{
				FirstPriority:   c.Generate.FirstPriority,
				OptionsPerField: c.Generate.OptionsPerField,
				TaxonomyTerms:   c.Generate.TaxonomyTerms,
				Workers:         c.Seed.Workers,
			}),
			generate.WithObserver(seed.Observers{
				seed.NewProgressObserver(f.IOStreams.ErrOut, "populate"),
				seed.NewLogObserver(l),
			}),
		}
		if c.Pexels.APIKey != "" {
			svcOpts = append(svcOpts, generate.WithPhotoProvider(photo.NewPexels(c.Pexels.APIKey,
				photo.WithBaseURL(c.Pexels.BaseURL),
				photo.WithMaxPage(c.Pexels.MaxPage),
				photo.WithRand(source.ForScope("pexels", 0).Rand),
			)))
		}
		return generate.NewService(store, source, svcOpts...), nil
	}

	f.Migrate = func(ctx context.Context) error {
		c, err := f.Config()
		if err != nil {
			return err
		}
		if opts.DryRun {
			return nil
		}
		p, err := openPool(ctx, c)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		return postgres.Migrate(ctx, p)
	}

	f.Close = func() {
		if pool != nil {
			postgres.LogPoolStats(context.Background(), pool)
			pool.Close()
		}
		if log != nil {
			_ = log.Sync()
		}
	}

	return f
}

// applyOverrides lets root flags win over file and environment values.
func applyOverrides(c *config.Config, opts *cmdutil.GlobalOptions) {
	if opts.Seed != 0 {
		c.Seed.Seed = opts.Seed
	}
	if opts.Workers > 0 {
		c.Seed.Workers = opts.Workers
	}
	if opts.LogLevel != "" {
		c.Log.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		c.Log.File = opts.LogFile
	}
}
