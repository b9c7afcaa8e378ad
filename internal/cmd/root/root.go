// Package root assembles the pno command tree.
package root

import (
	"github.com/spf13/cobra"

	"pnodev/internal/cmd/generate"
	"pnodev/internal/cmd/tool"
	"pnodev/internal/cmdutil"
	appctx "pnodev/internal/core/context"
	"pnodev/pkg/logger"
)

// NewCmdRoot creates the root command for the pno CLI.
func NewCmdRoot(f *cmdutil.Factory) *cobra.Command {
	opts := f.Options

	cmd := &cobra.Command{
		Use:   "pno",
		Short: "Generate test data for Posterno directories",
		Long: `pno fills a Posterno directory database with test data: custom profile and
listing fields, taxonomy terms, users, listings and random field values.

Quick start:
  pno tool migrate                      # Create the tables
  pno generate users 20
  pno generate taxonomies
  pno generate profile_fields           # Fields plus values for every user
  pno generate listings_fields
  pno generate listings 50 --db=yes     # Listings plus field values`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       f.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			run := appctx.NewRunContext(cmd.CommandPath(), opts.Seed)
			run.DryRun = opts.DryRun
			ctx := appctx.WithRun(cmd.Context(), run)

			// Commands that never touch the config still run when it is broken.
			if f.Logger != nil {
				if log, err := f.Logger(); err == nil {
					ctx = logger.WithLogger(ctx, log)
					log.WithContext(ctx).Debugw("pno starting", "version", f.Version, "dry_run", opts.DryRun)
				}
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (default: ./pno.yaml or ~/.config/pno/pno.yaml)")
	pf.Int64Var(&opts.Seed, "seed", 0, "Base random seed; 0 picks one and logs it")
	pf.IntVar(&opts.Workers, "workers", 0, "Concurrent writes per field (0 uses seed.workers)")
	pf.BoolVar(&opts.DryRun, "dry-run", false, "Write to an in-memory store instead of the database")
	pf.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&opts.LogFile, "log-file", "", "Also write JSON logs to this rotating file")

	cmd.SetVersionTemplate("pno {{.Version}}\n")

	cmd.AddCommand(generate.NewCmdGenerate(f))
	cmd.AddCommand(tool.NewCmdTool(f))

	return cmd
}
