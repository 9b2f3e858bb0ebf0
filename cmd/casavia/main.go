// Casavia Core - Real Estate Listing Platform
//
// This is the main entry point for the Casavia Core application.
// It serves the authentication, account security and property listing
// API backed by an embedded SQLite database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/casavia/casavia-core/migrations"

	"github.com/casavia/casavia-core/internal/api"
	"github.com/casavia/casavia-core/internal/auth"
	"github.com/casavia/casavia-core/internal/infrastructure/config"
	"github.com/casavia/casavia-core/internal/infrastructure/database"
	"github.com/casavia/casavia-core/internal/infrastructure/logging"
	"github.com/casavia/casavia-core/internal/listing"
	"github.com/casavia/casavia-core/internal/notify"
	"github.com/casavia/casavia-core/internal/threatscan"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Casavia Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Wire up repositories and services
	scanner := threatscan.New()
	users := auth.NewUserRepository(db.DB)
	resets := auth.NewResetTokenRepository(db.DB)
	listings := listing.NewRepository(db.DB)

	// Notification worker (optional)
	var notifier *notify.Worker
	if cfg.Notifications.Enabled {
		notifier = notify.NewWorker(cfg.Notifications, notify.NewLogSender(log), log)
		defer func() {
			log.Info("stopping notification worker")
			notifier.Close()
		}()
		log.Info("notification worker started", "buffer_size", cfg.Notifications.BufferSize)
	} else {
		log.Info("notifications disabled")
	}

	authSvc := newAuthService(users, resets, scanner, notifier, cfg.Security, log)
	listingSvc := listing.NewService(listings, scanner, log)

	// Seed an initial admin account when the user table is empty
	if seedErr := auth.SeedAdmin(ctx, users, log); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log,
		Auth:     authSvc,
		Listings: listingSvc,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Casavia Core stopped")
	return nil
}

// newAuthService builds the auth service, passing a nil notifier
// interface when notifications are disabled.
func newAuthService(users auth.UserRepository, resets auth.ResetTokenRepository,
	scanner *threatscan.Scanner, notifier *notify.Worker,
	security config.SecurityConfig, log *logging.Logger) *auth.Service {
	if notifier == nil {
		return auth.NewService(users, resets, scanner, nil, security, log)
	}
	return auth.NewService(users, resets, scanner, notifier, security, log)
}

// getConfigPath returns the configuration file path.
// Uses CASAVIA_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("CASAVIA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
