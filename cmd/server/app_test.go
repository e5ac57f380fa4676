package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication(t *testing.T) {
	app, err := newApplication(testConfig(), slog.Default())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.NotNil(t, app.stores)
	assert.NotNil(t, app.stores.Profiles)
	assert.NotNil(t, app.stores.Events)
	assert.NotNil(t, app.stores.RSVPs)
	assert.NotNil(t, app.stores.Groups)
	assert.NotNil(t, app.stores.Memberships)
	assert.NotNil(t, app.stores.Messages)
	assert.NotNil(t, app.authService)
	assert.NotNil(t, app.verifier)
}

func TestNewApplicationRejectsMissingURL(t *testing.T) {
	cfg := testConfig()
	cfg.Supabase.URL = ""

	_, err := newApplication(cfg, slog.Default())

	assert.Error(t, err)
}
