package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mbb-tracker/internal/cli"
)

func main() {
	// Watch-mode commands run until interrupted; cancel the context on
	// SIGINT/SIGTERM so they unwind cleanly and the timer snapshot lands.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.NewRootCommand()
	if err := root.Command().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
