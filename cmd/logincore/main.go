// logincore - identity, session and audit core
//
// This is the command line entry point. Every subcommand is a one-shot
// operation: it wires the stores, performs one action and exits. Session
// state lives in SQLite and the JSON documents, not in the process, so
// sessions created by one invocation are visible to the next.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mdoganay/login-core/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
