// Package main is the entry point for the gitify CLI.
//
// It stays minimal on purpose: install signal handling, run the command
// tree, exit with its code. Everything else — config, logging, wiring —
// happens inside internal/cli so it can be exercised from tests.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gitify-app/gitify-cli/internal/cli"
)

func main() {
	// Ctrl+C cancels the context, which unwinds whatever is in flight:
	// an API call, or the loopback server waiting for the browser.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx)
	stop() // os.Exit skips defers, so release the signal handler by hand
	os.Exit(code)
}
