// Package cmdutil holds what every pno command shares: the dependency
// factory, IO streams and error types.
package cmdutil

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"pnodev/internal/config"
	"pnodev/internal/generate"
	"pnodev/pkg/logger"
)

// IOStreams are the command input and outputs.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// System returns the process streams.
func System() *IOStreams {
	return &IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// IsOutputTTY reports whether Out is a terminal.
func (s *IOStreams) IsOutputTTY() bool {
	f, ok := s.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GlobalOptions are the root persistent flags.
type GlobalOptions struct {
	ConfigFile string
	Seed       int64
	Workers    int
	DryRun     bool
	LogLevel   string
	LogFile    string
}

// Factory provides shared dependencies for commands. The closures are wired
// by internal/cmd/factory and initialize lazily; tests build a Factory by hand.
type Factory struct {
	Version   string
	IOStreams *IOStreams
	Options   *GlobalOptions

	Config func() (*config.Config, error)
	Logger func() (*logger.Logger, error)

	// Service returns the generator service bound to the configured store.
	Service func(ctx context.Context) (*generate.Service, error)
	// Migrate applies the database schema.
	Migrate func(ctx context.Context) error
	// Close releases the database pool and flushes logs.
	Close func()
}
