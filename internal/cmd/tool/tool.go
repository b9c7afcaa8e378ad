// Package tool implements "pno tool": maintenance commands that do not
// generate data.
package tool

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pnodev/internal/cmdutil"
)

// NewCmdTool creates the "tool" command group.
func NewCmdTool(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "Inspect and prepare the directory database",
	}

	cmd.AddCommand(NewCmdVersion(f))
	cmd.AddCommand(NewCmdMigrate(f))
	cmd.AddCommand(NewCmdCommands(f))

	return cmd
}

// NewCmdVersion creates "tool version".
func NewCmdVersion(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the installed Posterno version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := f.Service(ctx)
			if err != nil {
				return err
			}
			v, err := svc.Version(ctx, f.Version)
			if err != nil {
				return err
			}
			fmt.Fprintln(f.IOStreams.Out, Format(v))
			return nil
		},
	}
}

// Format renders a version line.
func Format(version string) string {
	return "Posterno: " + version
}

// NewCmdMigrate creates "tool migrate".
func NewCmdMigrate(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the directory tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Migrate(cmd.Context()); err != nil {
				return err
			}
			cmdutil.Success(f.IOStreams.Out, "schema is up to date.")
			return nil
		},
	}
}

// CommandInfo describes one command for "tool commands".
type CommandInfo struct {
	Name        string        `json:"name"`
	Use         string        `json:"use"`
	Short       string        `json:"short,omitempty"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
}

// FlagInfo describes one local flag.
type FlagInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
	Usage   string `json:"usage"`
}

// NewCmdCommands creates "tool commands".
func NewCmdCommands(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the command tree as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdutil.WriteJSON(f.IOStreams.Out, Describe(cmd.Root()))
		},
	}
}

// Describe walks cmd and its visible subcommands.
func Describe(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{Name: cmd.Name(), Use: cmd.Use, Short: cmd.Short}
	cmd.LocalFlags().VisitAll(func(fl *pflag.Flag) {
		if fl.Hidden || fl.Name == "help" {
			return
		}
		info.Flags = append(info.Flags, FlagInfo{
			Name:    fl.Name,
			Type:    fl.Value.Type(),
			Default: fl.DefValue,
			Usage:   fl.Usage,
		})
	})
	for _, sub := range cmd.Commands() {
		if sub.Hidden || !sub.IsAvailableCommand() {
			continue
		}
		info.Subcommands = append(info.Subcommands, Describe(sub))
	}
	return info
}
