package generate

import (
	"github.com/spf13/cobra"

	"pnodev/internal/cmdutil"
	"pnodev/internal/metadata"
)

// DataOptions are the flags of "generate data".
type DataOptions struct {
	Where string
}

// NewCmdData creates "generate data".
func NewCmdData(f *cmdutil.Factory) *cobra.Command {
	opts := &DataOptions{}

	cmd := &cobra.Command{
		Use:   "data <profile|listing>",
		Short: "Fill existing fields with random values",
		Long: `Fills every profile field for every user, or every listing field for every
listing, without creating or deleting fields.`,
		Example: `  pno generate data profile
  pno generate data listing --where 'field.type.startsWith("term-")'`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(metadata.KindProfile), string(metadata.KindListing)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := metadata.FieldKind(args[0])
			if kind != metadata.KindProfile && kind != metadata.KindListing {
				return cmdutil.FlagErrorf("unknown field kind %q, want profile or listing", args[0])
			}
			where, err := compileWhere(opts.Where)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := f.Service(ctx)
			if err != nil {
				return err
			}
			sum, err := svc.Populate(ctx, kind, where)
			if err != nil {
				return err
			}
			printSummary(f.IOStreams.Out, string(kind), &sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "CEL expression selecting the fields to fill")

	return cmd
}
