package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"takatrack/internal/backendapi"
	"takatrack/internal/config"
	"takatrack/internal/export"
	gsheet "takatrack/internal/export/google"
	"takatrack/internal/log"
)

// tax-export is a one-shot job: fetch the yearly tax summary from the
// backend, append it to the configured Google Sheet, exit.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentExport})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for tax export")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sheets, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	backend := backendapi.NewClient(cfg.BackendURL, cfg.BackendAccessToken, cfg.BackendRefreshToken)
	exporter := export.NewExporter(backend, sheets)

	logger.Info("Starting tax export", "year", cfg.TaxYear)
	count, err := exporter.Run(ctx, cfg.TaxYear)
	if err != nil {
		logger.Error("Tax export failed", "error", err, "year", cfg.TaxYear)
		os.Exit(1)
	}
	logger.Info("Tax export complete", "year", cfg.TaxYear, "records", count)
}
