package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erazemk/freshrack/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		out := &cli.OutputFormatter{Writer: os.Stdout, ErrWriter: os.Stderr}
		if f := root.PersistentFlags().Lookup("format"); f != nil {
			out.Format = f.Value.String()
		}
		out.Error(err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
