package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnodev/internal/cmdutil"
	"pnodev/internal/domain/directory"
	generator "pnodev/internal/generate"
	"pnodev/internal/infrastructure/storage/memory"
	"pnodev/internal/seed"
	"pnodev/pkg/logger"
)

func newFactory(store *memory.Store, out *bytes.Buffer) *cmdutil.Factory {
	svc := generator.NewService(store, seed.NewSource(1), generator.WithLogger(logger.Nop()))
	return &cmdutil.Factory{
		Version:   "0.0.0-dev",
		IOStreams: &cmdutil.IOStreams{Out: out, ErrOut: io.Discard},
		Options:   &cmdutil.GlobalOptions{},
		Service:   func(context.Context) (*generator.Service, error) { return svc, nil },
		Migrate:   func(context.Context) error { return nil },
	}
}

func execute(t *testing.T, f *cmdutil.Factory, args ...string) error {
	t.Helper()
	cmd := NewCmdTool(f)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Posterno: 1.2.3", Format("1.2.3"))
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   string
	}{
		{name: "build version fallback", want: "Posterno: 0.0.0-dev\n"},
		{name: "stored option", stored: "1.3.2", want: "Posterno: 1.3.2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			if tt.stored != "" {
				require.NoError(t, store.SetOption(context.Background(), directory.VersionOption, tt.stored))
			}
			var out bytes.Buffer
			require.NoError(t, execute(t, newFactory(store, &out), "version"))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestMigrate(t *testing.T) {
	var out bytes.Buffer
	f := newFactory(memory.New(), &out)
	require.NoError(t, execute(t, f, "migrate"))
	assert.Equal(t, "Success: schema is up to date.\n", out.String())

	f.Migrate = func(context.Context) error { return errors.New("connection refused") }
	assert.EqualError(t, execute(t, f, "migrate"), "connection refused")
}

func TestCommandsDumpsTree(t *testing.T) {
	var out bytes.Buffer
	f := newFactory(memory.New(), &out)

	root := &cobra.Command{Use: "pno"}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().Int64("seed", 0, "Base seed")
	hidden := &cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}}
	root.AddCommand(NewCmdTool(f), hidden)
	root.SetArgs([]string{"tool", "commands"})
	root.SetOut(io.Discard)
	require.NoError(t, root.ExecuteContext(context.Background()))

	var info CommandInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "pno", info.Name)
	require.Len(t, info.Flags, 1)
	assert.Equal(t, FlagInfo{Name: "seed", Type: "int64", Default: "0", Usage: "Base seed"}, info.Flags[0])

	require.Len(t, info.Subcommands, 1)
	tool := info.Subcommands[0]
	assert.Equal(t, "tool", tool.Name)
	var names []string
	for _, sub := range tool.Subcommands {
		names = append(names, sub.Name)
	}
	assert.Equal(t, []string{"commands", "migrate", "version"}, names)
}
