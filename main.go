package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"aidigest/cmd"
	"aidigest/pkg/logging"
	"aidigest/pkg/version"

	"go.uber.org/zap"
)

func main() {
	logger, err := logging.Setup(false, version.AppName, version.Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = cmd.Execute(ctx, logger)
	stop()

	logger = cmd.Logger()
	if err != nil {
		logger.Error("aidigest execution failed", zap.Error(err))
		logging.Sync(logger)
		os.Exit(1)
	}
	logging.Sync(logger)
}
