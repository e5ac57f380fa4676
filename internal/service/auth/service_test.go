package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	authClient, err := supabase.NewAuthClient(supabase.Config{
		ProjectURL: server.URL,
		APIKey:     "anon-key",
	})
	require.NoError(t, err)
	return NewService(authClient)
}

func writeSession(w http.ResponseWriter, userID uuid.UUID) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  "access-token",
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    1900000000,
		"refresh_token": "refresh-token",
		"user": map[string]any{
			"id":    userID.String(),
			"email": "jane@example.com",
		},
	})
}

func TestSignUpIssuesSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "jane@example.com", payload["email"])
		meta, ok := payload["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", meta["name"])

		writeSession(w, userID)
	}))

	session, user, err := svc.SignUp(context.Background(), "jane@example.com", "password1", map[string]any{"name": "Jane Doe"})
	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotNil(t, user)
	assert.Equal(t, "access-token", session.AccessToken)
	assert.Equal(t, userID, user.ID)
}

func TestSignUpConfirmationPending(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + userID.String() + `","email":"jane@example.com"}`))
	}))

	session, user, err := svc.SignUp(context.Background(), "jane@example.com", "password1", nil)
	require.NoError(t, err)
	assert.Nil(t, session)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
}

func TestSignUpEmailTaken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_code":"user_already_exists","msg":"User already registered"}`))
	}))

	_, _, err := svc.SignUp(context.Background(), "jane@example.com", "password1", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/token", r.URL.Path)
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
			writeSession(w, userID)
		}))

		session, err := svc.SignIn(context.Background(), "jane@example.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, "refresh-token", session.RefreshToken)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
		}))

		_, err := svc.SignIn(context.Background(), "jane@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("valid refresh token", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
			writeSession(w, uuid.New())
		}))

		session, err := svc.Refresh(context.Background(), "refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "access-token", session.AccessToken)
	})

	t.Run("rejected refresh token", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_code":"refresh_token_not_found","msg":"Invalid Refresh Token"}`))
		}))

		_, err := svc.Refresh(context.Background(), "stale")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	t.Run("revokes session", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/logout", r.URL.Path)
			assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}))

		assert.NoError(t, svc.SignOut(context.Background(), "access-token"))
	})

	t.Run("already invalid token is not an error", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
		}))

		assert.NoError(t, svc.SignOut(context.Background(), "stale"))
	})
}
