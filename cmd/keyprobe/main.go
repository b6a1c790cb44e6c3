// Package main provides the entry point for the keyprobe CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agentstation/keyprobe/cmd/keyprobe/app"
	"github.com/agentstation/keyprobe/pkg/constants"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	// A failed probe is reported on stdout and still exits 0 unless --strict is set.
	err = application.Execute(ctx, os.Args[1:])
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()
	if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
		// The log file may already be closed.
		fmt.Fprintln(os.Stderr, "shutdown error:", shutdownErr)
	}

	app.ExitOnError(err)
}
