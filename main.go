package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/ankicode/cmd"
)

func main() {
	// Cancel on Ctrl+C or SIGTERM so the scheduler and in-flight work stop cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx)
	stop()
	os.Exit(code)
}
