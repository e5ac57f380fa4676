// Package middleware provides the authentication gate and request tracing
// applied around the route tree.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/redact"
	"github.com/eventsaga/eventsaga-api/internal/service/auth"
	"github.com/eventsaga/eventsaga-api/internal/store"
)

// AuthMiddleware resolves bearer tokens to caller profiles. Verification is
// delegated to the token verifier; the profile behind the token's subject
// is loaded fresh on every request.
type AuthMiddleware struct {
	verifier auth.TokenVerifier
	profiles store.ProfileStore
}

// NewAuthMiddleware creates an AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier auth.TokenVerifier, profiles store.ProfileStore) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		profiles: profiles,
	}
}

// bearerToken extracts the token from an Authorization header. The scheme
// match is case-insensitive; anything other than exactly two fields is
// malformed.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid bearer token and attaches
// the caller's profile and raw token to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		userID, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to verify token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		profile, err := m.profiles.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrProfileNotFound) {
				shared.RespondWithError(w, r, http.StatusNotFound, "Profile not found")
				return
			}
			slog.Error("failed to load caller profile", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := shared.WithProfile(r.Context(), profile)
		ctx = shared.WithAccessToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole layers a role check over an already-authenticated request.
// Apply inside RequireAuth.
func (m *AuthMiddleware) RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := shared.ProfileFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}
			if profile.Role != role {
				shared.RespondWithError(w, r, http.StatusForbidden, "Only organizers can perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth attaches the caller's profile when a valid token is present
// and otherwise passes the request through anonymously. No failure mode
// produces an error response here.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		profile, err := m.profiles.GetByID(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := shared.WithProfile(r.Context(), profile)
		ctx = shared.WithAccessToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
