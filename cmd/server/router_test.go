package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsaga/eventsaga-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
		Supabase: config.SupabaseConfig{
			URL:        "https://demo.supabase.co",
			AnonKey:    "anon-key",
			ServiceKey: "service-key",
			JWTSecret:  "jwt-secret",
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

func newTestApplication(t *testing.T) *application {
	t.Helper()
	app, err := newApplication(testConfig(), slog.Default())
	require.NoError(t, err)
	return app
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   string         `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "EventSaga API is running", env.Message)
	assert.Equal(t, version, env.Data["version"])
}

func TestUnknownRoute(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/does-not-exist")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Resource not found", env.Error)
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	rec, env := doRequest(t, router, http.MethodDelete, "/api/auth/login")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", env.Error)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodPut, "/api/profile"},
		{http.MethodPatch, "/api/profile/role"},
		{http.MethodPost, "/api/events"},
		{http.MethodGet, "/api/events/organizer/my-events"},
		{http.MethodGet, "/api/rsvps/my-rsvps"},
		{http.MethodPost, "/api/groups"},
		{http.MethodGet, "/api/groups/my-groups"},
	}

	for _, route := range protected {
		rec, env := doRequest(t, router, route.method, route.path)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
		assert.Equal(t, "Authorization header required", env.Error, "%s %s", route.method, route.path)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
