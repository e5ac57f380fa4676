package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/eventsaga/eventsaga-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case", logLevel: "DeBuG"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.logLevel})
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.Same(t, logger, slog.Default(), "Setup should install the logger as default")
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("returns logger from context", func(t *testing.T) {
		ctx := WithContext(context.Background(), base)
		assert.Same(t, base, FromContextOrDefault(ctx, nil))
	})

	t.Run("returns fallback when context has no logger", func(t *testing.T) {
		assert.Same(t, base, FromContextOrDefault(context.Background(), base))
	})

	t.Run("returns default when nothing else is available", func(t *testing.T) {
		assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
	})
}
