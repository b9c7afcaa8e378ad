// Package generate implements "pno generate" and its subcommands.
package generate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pnodev/internal/cmdutil"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
)

// NewCmdGenerate creates the "generate" command group.
func NewCmdGenerate(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate test data for a Posterno directory",
		Long: `Creates custom fields, taxonomy terms, users and listings, and fills
custom field values with random data that matches each field type.

Values derive from a base seed. Pass --seed to replay a previous run.`,
	}

	cmd.AddCommand(NewCmdProfileFields(f))
	cmd.AddCommand(NewCmdListingsFields(f))
	cmd.AddCommand(NewCmdTaxonomies(f))
	cmd.AddCommand(NewCmdUsers(f))
	cmd.AddCommand(NewCmdListings(f))
	cmd.AddCommand(NewCmdStatus(f))
	cmd.AddCommand(NewCmdData(f))

	return cmd
}

// compileWhere returns nil for an empty expression.
func compileWhere(src string) (*metadata.Expression, error) {
	if src == "" {
		return nil, nil
	}
	expr, err := metadata.CompileExpression(src)
	if err != nil {
		return nil, cmdutil.FlagErrorf("invalid --where: %v", err)
	}
	return expr, nil
}

func printSummary(w io.Writer, label string, s *seed.Summary) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "%s: %d of %d values written", label, s.Dispatched, s.Total)
	if n := s.SkippedTotal(); n > 0 {
		fmt.Fprintf(w, ", %d skipped (%s)", n, cmdutil.FormatCounts(s.Skipped))
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, ", %d failed", s.Failed)
	}
	fmt.Fprintln(w)
}
