package main

import (
	"context"
	"os/signal"
	"syscall"

	"procal/internal/holds/reaper"
	"procal/internal/holds/repository"
	"procal/pkg/config"
)

const ServiceName = "lock-reaper"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting lock reaper",
		"interval", cfg.ReaperInterval,
		"batch_size", cfg.ReaperBatchSize,
	)

	holdRepo := repository.NewMongoHoldRepository(cfg)
	reaper.New(holdRepo, cfg).Run(ctx)

	cfg.Log.Info("Lock reaper stopped")
}
