package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/mocks"
	"github.com/eventsaga/eventsaga-api/internal/service/auth"
	"github.com/eventsaga/eventsaga-api/internal/store"
)

func profileStoreWith(profile *domain.Profile) *mocks.MockProfileStore {
	return &mocks.MockProfileStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
			if profile != nil && id == profile.ID {
				return profile, nil
			}
			return nil, store.ErrProfileNotFound
		},
	}
}

// capture is a terminal handler recording whether it ran and with what
// identity.
type capture struct {
	called  bool
	profile *domain.Profile
	token   string
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.profile, _ = shared.ProfileFromContext(r.Context())
		c.token = shared.AccessTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	profile := &domain.Profile{ID: userID, Email: "jane@example.com", Name: "Jane", Role: domain.RoleAttendee}

	tests := []struct {
		name       string
		authHeader string
		verifier   *mocks.MockTokenVerifier
		profiles   *mocks.MockProfileStore
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing header",
			authHeader: "",
			verifier:   mocks.VerifierForUser(userID, "good-token", auth.ErrInvalidToken),
			profiles:   profileStoreWith(profile),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authorization header required",
		},
		{
			name:       "malformed header",
			authHeader: "good-token",
			verifier:   mocks.VerifierForUser(userID, "good-token", auth.ErrInvalidToken),
			profiles:   profileStoreWith(profile),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid authorization format",
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic good-token",
			verifier:   mocks.VerifierForUser(userID, "good-token", auth.ErrInvalidToken),
			profiles:   profileStoreWith(profile),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid authorization format",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			verifier:   mocks.VerifierForUser(userID, "good-token", auth.ErrInvalidToken),
			profiles:   profileStoreWith(profile),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:       "expired token",
			authHeader: "Bearer stale-token",
			verifier:   mocks.VerifierForUser(userID, "good-token", auth.ErrExpiredToken),
			profiles:   profileStoreWith(profile),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token expired",
		},
		{
			name:       "verifier failure",
			authHeader: "Bearer any-token",
			verifier:   mocks.VerifierForUser(userID, "good-token", errors.New("upstream down")),
			profiles:   profileStoreWith(profile),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Authentication error",
		},
		{
			name:       "profile missing",
			authHeader: "Bearer good-token",
			verifier:   mocks.VerifierForUser(userID, "good-token", auth.ErrInvalidToken),
			profiles:   profileStoreWith(nil),
			wantStatus: http.StatusNotFound,
			wantError:  "Profile not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := NewAuthMiddleware(tc.verifier, tc.profiles)
			var c capture
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			m.RequireAuth(c.handler()).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantError, errorBody(t, rec))
			assert.False(t, c.called)
		})
	}
}

func TestRequireAuthSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	profile := &domain.Profile{ID: userID, Email: "jane@example.com", Name: "Jane", Role: domain.RoleAttendee}
	m := NewAuthMiddleware(mocks.VerifierForUser(userID, "good-token", auth.ErrInvalidToken), profileStoreWith(profile))

	var c capture
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "bearer good-token") // scheme is case-insensitive

	m.RequireAuth(c.handler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, c.called)
	assert.Equal(t, profile, c.profile)
	assert.Equal(t, "good-token", c.token)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	makeRequest := func(t *testing.T, role domain.Role) (*httptest.ResponseRecorder, *capture) {
		t.Helper()
		userID := uuid.New()
		profile := &domain.Profile{ID: userID, Email: "x@y.com", Name: "X", Role: role}
		m := NewAuthMiddleware(mocks.VerifierForUser(userID, "tok", auth.ErrInvalidToken), profileStoreWith(profile))

		var c capture
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
		req.Header.Set("Authorization", "Bearer tok")

		chain := m.RequireAuth(m.RequireRole(domain.RoleOrganizer)(c.handler()))
		chain.ServeHTTP(rec, req)
		return rec, &c
	}

	t.Run("organizer passes", func(t *testing.T) {
		t.Parallel()
		rec, c := makeRequest(t, domain.RoleOrganizer)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, c.called)
	})

	t.Run("attendee rejected", func(t *testing.T) {
		t.Parallel()
		rec, c := makeRequest(t, domain.RoleAttendee)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Only organizers can perform this action", errorBody(t, rec))
		assert.False(t, c.called)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	profile := &domain.Profile{ID: userID, Email: "jane@example.com", Name: "Jane", Role: domain.RoleAttendee}

	tests := []struct {
		name        string
		authHeader  string
		wantProfile bool
	}{
		{name: "no header", authHeader: "", wantProfile: false},
		{name: "malformed header", authHeader: "Bearer", wantProfile: false},
		{name: "invalid token", authHeader: "Bearer bad-token", wantProfile: false},
		{name: "valid token", authHeader: "Bearer good-token", wantProfile: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := NewAuthMiddleware(mocks.VerifierForUser(userID, "good-token", auth.ErrInvalidToken), profileStoreWith(profile))
			var c capture
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			m.OptionalAuth(c.handler()).ServeHTTP(rec, req)

			// Optional auth never blocks the request.
			assert.Equal(t, http.StatusOK, rec.Code)
			require.True(t, c.called)
			if tc.wantProfile {
				assert.Equal(t, profile, c.profile)
			} else {
				assert.Nil(t, c.profile)
			}
		})
	}
}
