package main

import (
	"log/slog"
	"os"

	"complaintreport/internal/app"
	"complaintreport/internal/config"
	"complaintreport/internal/infrastructure"
	"complaintreport/pkg/contracts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Paths.LogsDir, 0o755); err != nil {
		slog.Error("Failed to create logs directory", slog.String("path", cfg.Paths.LogsDir), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, logFile, err := infrastructure.OpenLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	logger.Info("Starting web server", slog.String("build", contracts.GetFullVersionString()))

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
