package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"stockcontrol/internal/cli"
	"stockcontrol/pkg/config"
	"stockcontrol/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(errOut, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	// --- Logging ---
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: errOut})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, cfg, args, in, out); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}
