package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/habitcheck/internal/cli"
	"github.com/JonMunkholm/habitcheck/internal/config"
	"github.com/JonMunkholm/habitcheck/internal/logging"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	// Server settings are validated by serve; a file check never fails on them
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Default()
	}

	// Logs go to stderr; stdout carries the report
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if cfgErr != nil {
		slog.Warn("configuration not loaded, using defaults", "error", cfgErr)
	}
	if err := cfg.Logging.Validate(); err != nil {
		slog.Warn("invalid logging settings, falling back to info/text", "error", err)
	}
	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}

	os.Exit(cli.Execute(context.Background(), cfg, cfgErr, os.Args[1:], os.Stdout, os.Stderr))
}
