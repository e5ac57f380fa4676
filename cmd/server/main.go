// Package main implements the entry point for the EventSaga API server,
// a REST facade over a Supabase backend for event discovery, RSVPs,
// community groups, and group chat.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/eventsaga/eventsaga-api/internal/config"
	"github.com/eventsaga/eventsaga-api/internal/platform/logger"
)

// version is the build version reported by the health endpoint.
// Overridden at build time via -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, and wires all
// application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"supabase_url_present", cfg.Supabase.URL != "",
		"local_jwt_verification", cfg.Supabase.JWTSecret != "")

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return app, nil
}
