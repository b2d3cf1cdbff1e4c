// Package main is the entry point for the hpcgate CLI.
//
// hpcgate validates an HPC cluster specification before provisioning. It
// fills defaults, checks the document against cloud metadata and reports
// every finding, failing the gate when blocking findings remain.
//
// Commands: validate, defaults, validators, version, completion.
//
// For detailed usage information, run:
//
//	hpcgate --help
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/hpcgate/cmd/hpcgate/commands"
	"github.com/imamik/hpcgate/cmd/hpcgate/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *handlers.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return handlers.ExitFailure
	}
	return handlers.ExitOK
}
