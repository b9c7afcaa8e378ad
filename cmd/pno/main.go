package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pnodev/internal/cmd/factory"
	"pnodev/internal/cmd/root"
	"pnodev/internal/cmdutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := factory.New(Version)
	defer f.Close()

	cmd, err := root.NewCmdRoot(f).ExecuteContextC(ctx)
	if err != nil {
		fmt.Fprintln(f.IOStreams.ErrOut, "Error:", err)
		if cmdutil.IsFlagError(err) {
			fmt.Fprintln(f.IOStreams.ErrOut)
			fmt.Fprint(f.IOStreams.ErrOut, cmd.UsageString())
			return 2
		}
		return 1
	}
	return 0
}
