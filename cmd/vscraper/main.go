package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vscraper/internal/config"
	"vscraper/internal/logger"
	"vscraper/internal/ui"
)

func main() {
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		ui.NewPrinter(os.Stdout).Error("%v", err)
		stop()
		os.Exit(1)
	}
}
