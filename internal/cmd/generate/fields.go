package generate

import (
	"context"

	"github.com/spf13/cobra"

	"pnodev/internal/cmdutil"
	generator "pnodev/internal/generate"
	"pnodev/internal/metadata"
)

// FieldsOptions are the flags of profile_fields and listings_fields.
type FieldsOptions struct {
	Populate  bool
	Blueprint string
	Where     string
}

// NewCmdProfileFields creates "generate profile_fields".
func NewCmdProfileFields(f *cmdutil.Factory) *cobra.Command {
	return newCmdFields(f, metadata.KindProfile, &cobra.Command{
		Use:   "profile_fields",
		Short: "Replace generated profile fields with one field per type",
		Long: `Deletes previously generated profile and registration fields, creates one
profile field per registered field type and mirrors every non-file profile
field into a registration field.`,
		Example: `  # Create fields and fill them for every user
  pno generate profile_fields

  # Create the fields described in a YAML file without filling them
  pno generate profile_fields --blueprint fields.yaml --populate=false`,
	})
}

// NewCmdListingsFields creates "generate listings_fields".
func NewCmdListingsFields(f *cmdutil.Factory) *cobra.Command {
	return newCmdFields(f, metadata.KindListing, &cobra.Command{
		Use:   "listings_fields",
		Short: "Replace generated listing fields with one field per type",
		Long: `Deletes previously generated listing fields and creates one listing field
per registered field type. Term fields are bound to the test taxonomies.`,
		Example: `  pno generate listings_fields --where 'field.type != "editor"'`,
	})
}

func newCmdFields(f *cmdutil.Factory, kind metadata.FieldKind, cmd *cobra.Command) *cobra.Command {
	opts := &FieldsOptions{}
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runFields(cmd.Context(), f, kind, opts)
	}

	cmd.Flags().BoolVar(&opts.Populate, "populate", true, "Fill the new fields for every existing entity")
	cmd.Flags().StringVar(&opts.Blueprint, "blueprint", "", "YAML file describing the fields to create")
	cmd.Flags().StringVar(&opts.Where, "where", "", "CEL expression selecting the fields to fill")

	return cmd
}

func runFields(ctx context.Context, f *cmdutil.Factory, kind metadata.FieldKind, opts *FieldsOptions) error {
	where, err := compileWhere(opts.Where)
	if err != nil {
		return err
	}
	req := generator.FieldsRequest{Populate: opts.Populate, Where: where}
	if opts.Blueprint != "" {
		bp, err := metadata.LoadBlueprint(opts.Blueprint)
		if err != nil {
			return cmdutil.FlagErrorf("invalid --blueprint: %v", err)
		}
		req.Blueprint = &bp
	}

	svc, err := f.Service(ctx)
	if err != nil {
		return err
	}

	var report generator.FieldsReport
	if kind == metadata.KindListing {
		report, err = svc.ListingFields(ctx, req)
	} else {
		report, err = svc.ProfileFields(ctx, req)
	}
	if err != nil {
		return err
	}

	out := f.IOStreams.Out
	if kind == metadata.KindListing {
		cmdutil.Success(out, "%d listing fields created (%d removed).", len(report.Created), report.Deleted)
	} else {
		cmdutil.Success(out, "%d profile fields and %d registration fields created (%d removed).",
			len(report.Created), report.Registration, report.Deleted)
	}
	printSummary(out, string(kind), report.Populated)
	return nil
}
