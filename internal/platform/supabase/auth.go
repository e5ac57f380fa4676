package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an identity record from the GoTrue auth surface.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Session is a token pair issued by the auth surface. A signup response may
// carry a user without tokens when email confirmation is pending.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// AuthClient performs GoTrue calls against a Supabase project's /auth/v1
// surface using the anon key.
type AuthClient struct {
	prefix string
	apiKey string
	http   *http.Client
}

// NewAuthClient creates an auth client for the given project.
func NewAuthClient(cfg Config) (*AuthClient, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("supabase: project URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &AuthClient{
		prefix: strings.TrimRight(cfg.ProjectURL, "/") + "/auth/v1",
		apiKey: cfg.APIKey,
		http:   httpClient,
	}, nil
}

// SignUp registers a new identity. The metadata map is stored as the user's
// user_metadata and is available to backend triggers (profile bootstrap).
func (a *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}
	return a.sessionRequest(ctx, a.prefix+"/signup", "", payload)
}

// SignInWithPassword exchanges credentials for a session.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	return a.sessionRequest(ctx, a.prefix+"/token?grant_type=password", "", payload)
}

// RefreshSession exchanges a refresh token for a new session pair.
func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	payload := map[string]any{"refresh_token": refreshToken}
	return a.sessionRequest(ctx, a.prefix+"/token?grant_type=refresh_token", "", payload)
}

// SignOut revokes the session behind the given access token.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := a.do(ctx, http.MethodPost, a.prefix+"/logout", accessToken, nil)
	return err
}

// GetUser resolves an access token to its identity record. An invalid or
// expired token surfaces as an *AuthError.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	body, err := a.do(ctx, http.MethodGet, a.prefix+"/user", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("supabase auth: decoding user: %w", err)
	}
	return &user, nil
}

// sessionRequest posts a payload and decodes a session response. When the
// backend returns a bare user (signup with confirmation pending), the
// session carries the user with empty tokens.
func (a *AuthClient) sessionRequest(ctx context.Context, url, token string, payload map[string]any) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("supabase auth: encoding payload: %w", err)
	}

	respBody, err := a.do(ctx, http.MethodPost, url, token, body)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("supabase auth: decoding session: %w", err)
	}
	if session.User == nil && session.AccessToken == "" {
		var user User
		if err := json.Unmarshal(respBody, &user); err == nil && user.ID != uuid.Nil {
			session.User = &user
		}
	}
	return &session, nil
}

func (a *AuthClient) do(ctx context.Context, method, url, token string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("supabase auth: building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", a.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase auth: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase auth: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAuthError(resp.StatusCode, respBody)
	}
	return respBody, nil
}
