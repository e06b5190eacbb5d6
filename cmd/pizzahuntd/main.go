// Command pizzahuntd serves the pizza catalog REST API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pizzahunt/internal/config"
	"pizzahunt/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(os.Getenv("PIZZAHUNT_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg, "pizzahuntd")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := serve(ctx, cfg, logger, nil); err != nil {
		logger.Error("pizzahuntd stopped", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("pizzahuntd shutting down")
}
