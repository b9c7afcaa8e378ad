package generate

import (
	"github.com/spf13/cobra"

	"pnodev/internal/cmdutil"
	"pnodev/internal/domain/directory"
)

// TaxonomiesOptions are the flags of "generate taxonomies".
type TaxonomiesOptions struct {
	Count int
}

// NewCmdTaxonomies creates "generate taxonomies".
func NewCmdTaxonomies(f *cmdutil.Factory) *cobra.Command {
	opts := &TaxonomiesOptions{}

	cmd := &cobra.Command{
		Use:   "taxonomies",
		Short: "Create random terms in the test taxonomies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Count < 0 {
				return cmdutil.FlagErrorf("--count must not be negative")
			}
			ctx := cmd.Context()
			svc, err := f.Service(ctx)
			if err != nil {
				return err
			}
			created, err := svc.Taxonomies(ctx, opts.Count)
			if err != nil {
				return err
			}
			counts := make(map[string]int, len(created))
			for _, tax := range directory.ListingTaxonomies {
				counts[tax.Name] = len(created[tax.Name])
			}
			cmdutil.Success(f.IOStreams.Out, "terms created: %s.", cmdutil.FormatCounts(counts))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Count, "count", 0, "Terms per taxonomy (0 uses generate.taxonomy_terms)")

	return cmd
}
