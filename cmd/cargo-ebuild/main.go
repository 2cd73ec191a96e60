package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargo-ebuild/internal/cli"
	ebuilderrors "github.com/matzehuels/cargo-ebuild/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "error:", ebuilderrors.UserMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// The level is final only after flags are parsed; see CLI.setup.
	c := cli.New(os.Stderr, log.WarnLevel)
	root := c.RootCommand()
	// cargo runs external subcommands as "cargo-ebuild ebuild [args]".
	root.SetArgs(cli.Args(os.Args[1:]))
	return root.ExecuteContext(ctx)
}
