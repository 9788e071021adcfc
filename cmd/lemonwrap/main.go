package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tliron/commonlog/simple"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
