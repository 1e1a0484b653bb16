package main

import (
	"context"
	"os"

	"ContentPipeline/internal/app"
	"ContentPipeline/internal/config"
	"ContentPipeline/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application := app.New(cfg, logger)

	if err := application.RunWeeklyDraft(ctx); err != nil {
		logger.Error("weekly draft failed", "error", err)
		os.Exit(1)
	}
}
