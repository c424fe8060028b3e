package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/miaoxn/soliditytool/internal/commands"
	"github.com/miaoxn/soliditytool/internal/telemetry"
)

func main() {
	defer telemetry.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	app := commands.App()

	if err := app.RunContext(ctx, os.Args); err != nil {
		// Error already logged by ExitErrHandler
		os.Exit(1)
	}
}
