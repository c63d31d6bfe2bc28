package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/teampilot/internal/adapters/driving/cli"
)

func main() {
	// SIGINT and SIGTERM cancel the command context, which shuts the
	// long-running commands (serve, watch, mcp, chat) down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
