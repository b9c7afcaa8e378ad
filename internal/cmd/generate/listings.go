package generate

import (
	"context"

	"github.com/spf13/cobra"

	"pnodev/internal/cmdutil"
	generator "pnodev/internal/generate"
)

// ListingsOptions are the flags of "generate listings".
type ListingsOptions struct {
	Amount int
	DB     string
	Images bool
	Pexels string
	Author string
	Where  string
}

// NewCmdListings creates "generate listings".
func NewCmdListings(f *cmdutil.Factory) *cobra.Command {
	opts := &ListingsOptions{}

	cmd := &cobra.Command{
		Use:   "listings <amount>",
		Short: "Create published listings",
		Long: `Creates <amount> published listings owned by random existing users, or by
--author when given. With --db=yes the custom fields of the new listings are
filled too.`,
		Example: `  # Ten listings with field values and Pexels images
  pno generate listings 10 --db=yes --images --pexels=$PEXELS_KEY

  # Listings owned by one user
  pno generate listings 5 --author admin@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := cmdutil.ParseAmount(args[0])
			if err != nil {
				return err
			}
			opts.Amount = amount
			return runListings(cmd.Context(), f, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "no", `Fill custom field values of the new listings ("yes" or "no")`)
	cmd.Flags().BoolVar(&opts.Images, "images", false, "Set a featured image on every listing")
	cmd.Flags().StringVar(&opts.Pexels, "pexels", "", "Pexels API key for featured images")
	cmd.Flags().StringVar(&opts.Author, "author", "", "Owner of the listings: user id, email or login")
	cmd.Flags().StringVar(&opts.Where, "where", "", "CEL expression selecting the fields to fill")

	return cmd
}

func runListings(ctx context.Context, f *cmdutil.Factory, opts *ListingsOptions) error {
	var populate bool
	switch opts.DB {
	case "yes":
		populate = true
	case "no", "":
	default:
		return cmdutil.FlagErrorf(`--db must be "yes" or "no", got %q`, opts.DB)
	}
	where, err := compileWhere(opts.Where)
	if err != nil {
		return err
	}

	if opts.Pexels != "" {
		cfg, err := f.Config()
		if err != nil {
			return err
		}
		cfg.Pexels.APIKey = opts.Pexels
	}

	svc, err := f.Service(ctx)
	if err != nil {
		return err
	}
	report, err := svc.Listings(ctx, generator.ListingsRequest{
		Amount:   opts.Amount,
		Author:   opts.Author,
		Images:   opts.Images,
		Populate: populate,
		Where:    where,
	})
	if err != nil {
		return err
	}

	out := f.IOStreams.Out
	cmdutil.Success(out, "%d listings created (%d with images).", len(report.Created), report.Images)
	printSummary(out, "listing", report.Populated)
	return nil
}
