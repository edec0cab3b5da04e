// Command task-tracker is the CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/task-tracker/cmd"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Failures are already printed by Run; only an interrupt changes the
	// exit status.
	if err := cmd.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil && ctx.Err() != nil {
		fmt.Fprintf(os.Stderr, "\nInterrupted\n")
		os.Exit(130)
	}
}
