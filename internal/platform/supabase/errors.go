package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoRows is returned when a query expecting at least one row matches none.
var ErrNoRows = errors.New("supabase: no rows in result")

// APIError is a non-2xx response from the PostgREST surface. Code carries
// the PostgreSQL/PostgREST error code when the backend reports one.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
}

// IsUniqueViolation reports whether the error is the backend's unique
// constraint rejection. This is the real race guard behind check-then-insert
// sequences in the handlers.
func (e *APIError) IsUniqueViolation() bool {
	return e.Code == "23505" || e.Status == http.StatusConflict
}

// AuthError is a non-2xx response from the GoTrue auth surface.
type AuthError struct {
	Status    int
	Code      string // error_code when reported, e.g. user_already_exists
	Message   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("supabase auth: %s (status %d)", e.Message, e.Status)
}

// IsUserExists reports whether the error indicates a duplicate signup.
func (e *AuthError) IsUserExists() bool {
	if e.Code == "user_already_exists" || e.Code == "email_exists" {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists")
}

// IsInvalidCredentials reports whether the error indicates a failed
// password grant.
func (e *AuthError) IsInvalidCredentials() bool {
	if e.Code == "invalid_credentials" || e.Code == "invalid_grant" {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "invalid login credentials") ||
		strings.Contains(msg, "invalid grant")
}

// IsInvalidToken reports whether the error indicates a rejected or expired
// token (access or refresh).
func (e *AuthError) IsInvalidToken() bool {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "invalid") || strings.Contains(msg, "expired")
}

// parseAPIError decodes a PostgREST error body into an *APIError.
func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}

// parseAuthError decodes a GoTrue error body, which uses several shapes
// across endpoints ({"msg":...}, {"message":...}, {"error_description":...}).
func parseAuthError(status int, body []byte) error {
	var payload struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	authErr := &AuthError{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		authErr.Code = payload.ErrorCode
		if authErr.Code == "" {
			if s, ok := payload.Code.(string); ok {
				authErr.Code = s
			}
		}
		if authErr.Code == "" {
			authErr.Code = payload.Error
		}
		switch {
		case payload.Msg != "":
			authErr.Message = payload.Msg
		case payload.Message != "":
			authErr.Message = payload.Message
		case payload.ErrorDescription != "":
			authErr.Message = payload.ErrorDescription
		case payload.Error != "":
			authErr.Message = payload.Error
		}
	}
	if authErr.Message == "" {
		authErr.Message = strings.TrimSpace(string(body))
		if authErr.Message == "" {
			authErr.Message = http.StatusText(status)
		}
	}
	return authErr
}
