package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
)

// withCaller attaches an authenticated profile to the request, the way
// RequireAuth does in production.
func withCaller(r *http.Request, profile *domain.Profile) *http.Request {
	ctx := shared.WithProfile(r.Context(), profile)
	ctx = shared.WithAccessToken(ctx, "test-token")
	return r.WithContext(ctx)
}

// withPathParams attaches chi URL parameters to the request.
func withPathParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnv(t *testing.T, rec *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()
	var env shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// dataMap re-decodes the envelope's data into a generic map for shape
// assertions.
func dataMap(t *testing.T, env shared.Envelope) map[string]any {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func attendee() *domain.Profile {
	return &domain.Profile{
		ID:    uuid.New(),
		Email: "attendee@example.com",
		Name:  "Alice Attendee",
		Role:  domain.RoleAttendee,
	}
}

func organizer() *domain.Profile {
	return &domain.Profile{
		ID:    uuid.New(),
		Email: "organizer@example.com",
		Name:  "Olga Organizer",
		Role:  domain.RoleOrganizer,
	}
}
