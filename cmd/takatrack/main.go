package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"takatrack/internal/amqp"
	"takatrack/internal/backendapi"
	"takatrack/internal/config"
	"takatrack/internal/dashboard"
	"takatrack/internal/export"
	gsheet "takatrack/internal/export/google"
	"takatrack/internal/goals"
	apphttp "takatrack/internal/http"
	"takatrack/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose goals storage backend (default: sqlite).
	var store goals.Store
	switch cfg.GoalsBackend {
	case "memory":
		store = goals.NewMemoryStore()
		logger.Info("Initialized in-memory goals store", "backend", cfg.GoalsBackend)
	default:
		sqliteStore, err := goals.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite goals store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = sqliteStore
		logger.Info("Initialized SQLite goals store", "backend", cfg.GoalsBackend, "path", cfg.SQLiteDBPath)
	}
	defer store.Close()

	backend := backendapi.NewClient(cfg.BackendURL, cfg.BackendAccessToken, cfg.BackendRefreshToken)

	// AMQP is optional: without it goal milestones and budget alerts are
	// simply not announced.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - milestone and alert events will not be published")
	}

	var milestonePub goals.MilestonePublisher
	var alertPub dashboard.AlertPublisher
	if amqpClient != nil {
		milestonePub = amqpClient
		alertPub = amqpClient
	}

	goalSvc := goals.NewService(store, milestonePub)
	dashSvc := dashboard.NewService(backend, goalSvc, alertPub)

	// Tax export is optional and needs a spreadsheet plus credentials.
	var exporter apphttp.TaxExporter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = export.NewExporter(backend, sheets)
		logger.Info("Tax export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Tax export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, backend, goalSvc, dashSvc, apphttp.Options{
		UserID:       cfg.UserID,
		CacheTTL:     cfg.CacheTTL,
		CacheSize:    cfg.CacheSize,
		CleanupEvery: cfg.CleanupEvery,
		Exporter:     exporter,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting takatrack server", "port", cfg.Port, "backend_url", cfg.BackendURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
