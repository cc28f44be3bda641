package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/league-catalog/internal/config"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_CATALOG_RUN") == "1" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, config.Load())
	stop()
	os.Exit(code)
}
