package generate

import (
	"github.com/spf13/cobra"

	"pnodev/internal/cmdutil"
)

// NewCmdStatus creates "generate status".
func NewCmdStatus(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "status <amount>",
		Short: "Give random listings a random status",
		Long: `Picks <amount> random listings and assigns each one of publish, pending,
expired or draft.`,
		Args: cobra.ExactArgs(1),
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
			counts, err := svc.Status(ctx, amount)
			if err != nil {
				return err
			}
			cmdutil.Success(f.IOStreams.Out, "statuses changed: %s.", cmdutil.FormatCounts(counts))
			return nil
		},
	}
}
