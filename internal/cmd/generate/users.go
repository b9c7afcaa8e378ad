package generate

import (
	"github.com/spf13/cobra"

	"pnodev/internal/cmdutil"
)

// NewCmdUsers creates "generate users".
func NewCmdUsers(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:     "users <amount>",
		Short:   "Create users with random credentials",
		Args:    cobra.ExactArgs(1),
		Example: `  pno generate users 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := cmdutil.ParseAmount(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := f.Service(ctx)
			if err != nil {
				return err
			}
			report, err := svc.Users(ctx, amount)
			if err != nil {
				return err
			}
			cmdutil.Success(f.IOStreams.Out, "%d users created (%d skipped).", len(report.Created), report.Skipped)
			return nil
		},
	}
}
