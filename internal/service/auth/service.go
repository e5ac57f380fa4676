package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

// Service wraps the identity provider's credential flows, translating its
// error payloads into stable sentinel errors the API layer can map to
// status codes.
type Service struct {
	auth *supabase.AuthClient
}

// NewService creates an auth service backed by the given provider client.
func NewService(authClient *supabase.AuthClient) *Service {
	return &Service{auth: authClient}
}

// SignUp registers a new account. Metadata is stored on the account record
// by the provider and surfaced in its user payloads. Returns ErrEmailTaken
// when the email is already registered.
//
// The returned session may be nil when the provider requires email
// confirmation before issuing tokens; the user is still returned.
func (s *Service) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.Session, *supabase.User, error) {
	session, err := s.auth.SignUp(ctx, email, password, metadata)
	if err != nil {
		var authErr *supabase.AuthError
		if errors.As(err, &authErr) && authErr.IsUserExists() {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("signing up: %w", err)
	}
	if session.AccessToken == "" {
		// Confirmation pending: provider returned a bare user record.
		return nil, session.User, nil
	}
	return session, session.User, nil
}

// SignIn exchanges email/password credentials for a session. Returns
// ErrInvalidCredentials when the provider rejects them.
func (s *Service) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		var authErr *supabase.AuthError
		if errors.As(err, &authErr) && authErr.IsInvalidCredentials() {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return session, nil
}

// SignOut revokes the session behind the given access token. Revoking an
// already-invalid token is not an error.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if err := s.auth.SignOut(ctx, accessToken); err != nil {
		var authErr *supabase.AuthError
		if errors.As(err, &authErr) && authErr.IsInvalidToken() {
			return nil
		}
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a new session. Returns
// ErrInvalidRefreshToken when the token is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*supabase.Session, error) {
	session, err := s.auth.RefreshSession(ctx, refreshToken)
	if err != nil {
		var authErr *supabase.AuthError
		if errors.As(err, &authErr) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return session, nil
}
