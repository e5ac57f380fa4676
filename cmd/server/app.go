package main

import (
	"fmt"
	"log/slog"

	"github.com/eventsaga/eventsaga-api/internal/config"
	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
	"github.com/eventsaga/eventsaga-api/internal/service/auth"
	"github.com/eventsaga/eventsaga-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	stores *store.SupabaseStores

	authService *auth.Service
	verifier    auth.TokenVerifier
}

// newApplication wires all dependencies from configuration. Reads run
// through a caller-scoped client; writes run through a service-role client
// because the backend's row-level security only admits writes from the
// service role. Handlers enforce authorization before any write is issued.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	readClient, err := supabase.NewClient(supabase.Config{
		ProjectURL: cfg.Supabase.URL,
		APIKey:     cfg.Supabase.AnonKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create read client: %w", err)
	}

	writeClient, err := supabase.NewClient(supabase.Config{
		ProjectURL: cfg.Supabase.URL,
		APIKey:     cfg.Supabase.ServiceKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create write client: %w", err)
	}

	authClient, err := supabase.NewAuthClient(supabase.Config{
		ProjectURL: cfg.Supabase.URL,
		APIKey:     cfg.Supabase.AnonKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	return &application{
		config:      cfg,
		logger:      appLogger,
		stores:      store.NewSupabaseStores(readClient, writeClient),
		authService: auth.NewService(authClient),
		verifier:    auth.NewSupabaseVerifier(authClient, cfg.Supabase.JWTSecret),
	}, nil
}
