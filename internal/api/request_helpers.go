package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/validation"
)

// pathUUID extracts and validates a UUID path parameter. On rejection it
// writes the 400 response and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if err := validation.UUID(raw); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid UUID format")
		return uuid.Nil, false
	}
	return id, true
}

// callerProfile returns the authenticated caller. Handlers mounted behind
// RequireAuth always have one; the 401 here is a guard against wiring
// mistakes.
func callerProfile(w http.ResponseWriter, r *http.Request) (*domain.Profile, bool) {
	profile, ok := shared.ProfileFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return nil, false
	}
	return profile, true
}

// optionalCaller returns the caller profile or nil on anonymous requests.
func optionalCaller(r *http.Request) *domain.Profile {
	profile, _ := shared.ProfileFromContext(r.Context())
	return profile
}

// stringField reads a string value from a decoded JSON map, trimmed. The
// second return reports whether the key was present with a string value.
func stringField(data map[string]any, key string) (string, bool) {
	v, ok := data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// intField reads a numeric value from a decoded JSON map. JSON numbers
// decode as float64; anything else is rejected.
func intField(data map[string]any, key string) (int, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
