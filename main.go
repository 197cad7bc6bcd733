package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/cmd"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/internal/output"
)

func main() {
	// Interrupts cancel the command context; long-running checks (the archive
	// checksum in particular) notice and wind down cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		output.Error(err)
		os.Exit(1)
	}
}
