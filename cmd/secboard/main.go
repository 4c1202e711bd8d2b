package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"secboard/internal/config"
	"secboard/internal/logging"
	"secboard/internal/storage"
	"secboard/internal/ui"
	"secboard/internal/webhook"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.Open(logging.Options{
		Path:            cfg.Log.Path,
		Level:           cfg.Log.Level,
		Format:          cfg.Log.Format,
		ReportTimestamp: cfg.Log.Timestamp,
	})
	if err != nil {
		fmt.Printf("failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	logger.Info("starting", "config", configPath, "base_url", cfg.BaseURL)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "err", err)
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := webhook.NewClient(cfg.BaseURL, cfg.Endpoints,
		webhook.WithTimeout(cfg.Timeout()),
		webhook.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		webhook.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = ui.Run(ctx, ui.Deps{
		Backend: client,
		Prefs:   store,
		Config:  cfg,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("program exited with error", "err", err)
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
