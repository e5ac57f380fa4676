package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/redact"
	"github.com/eventsaga/eventsaga-api/internal/service/auth"
	"github.com/eventsaga/eventsaga-api/internal/store"
	"github.com/eventsaga/eventsaga-api/internal/validation"
)

// AuthHandler handles signup, login, logout, current-user, and token
// refresh. Credential checks and token issuance are owned by the auth
// backend; the handler validates input and reshapes responses.
type AuthHandler struct {
	authService *auth.Service
	profiles    store.ProfileStore
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService *auth.Service, profiles store.ProfileStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		profiles:    profiles,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	data, err := shared.DecodeJSONMap(r)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fieldErrors := validation.RequiredFields(data, []string{"email", "password", "name", "role"}); len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	email, _ := stringField(data, "email")
	password, _ := data["password"].(string)
	name, _ := stringField(data, "name")
	role, _ := stringField(data, "role")
	role = strings.ToLower(role)

	if err := validation.Email(email); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{"email": err.Error()})
		return
	}
	if err := validation.Password(password); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{"password": err.Error()})
		return
	}
	if err := validation.Name(name); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{"name": err.Error()})
		return
	}
	if err := validation.Role(role); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{"role": err.Error()})
		return
	}

	session, user, err := h.authService.SignUp(r.Context(), email, password, map[string]any{
		"name": name,
		"role": role,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Email already registered")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Registration failed", err)
		return
	}

	// The backend trigger bootstraps the profile with defaults; set the
	// requested role and name. A failure here is not fatal.
	if _, err := h.profiles.Update(r.Context(), user.ID, map[string]any{"role": role, "name": name}); err != nil {
		slog.Warn("post-signup profile update failed",
			"error", redact.Error(err), "user_id", user.ID)
	}

	responseData := map[string]any{}
	profile, err := h.profiles.GetByID(r.Context(), user.ID)
	if err != nil {
		// Profile bootstrap may lag; echo what we know.
		responseData["user"] = map[string]any{
			"id":    user.ID,
			"email": email,
			"name":  name,
			"role":  role,
		}
	} else {
		responseData["user"] = profile
	}

	message := "User registered successfully. Please check your email to confirm your account."
	if session != nil {
		responseData["session"] = sessionPayload(session)
		message = "User registered successfully"
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, message, responseData)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	data, err := shared.DecodeJSONMap(r)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fieldErrors := validation.RequiredFields(data, []string{"email", "password"}); len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	email, _ := stringField(data, "email")
	password, _ := data["password"].(string)

	if err := validation.Email(email); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{"email": err.Error()})
		return
	}

	session, err := h.authService.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Login failed", err)
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), session.User.ID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User profile not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Login failed", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Login successful", map[string]any{
		"user":    profile,
		"session": sessionPayload(session),
	})
}

// Logout handles POST /api/auth/logout. Requires auth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := shared.AccessTokenFromContext(r.Context())
	if err := h.authService.SignOut(r.Context(), token); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Logout failed", err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Logout successful", nil)
}

// Me handles GET /api/auth/me. Requires auth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := callerProfile(w, r)
	if !ok {
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "", profile)
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.RefreshToken == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Refresh token is required")
		return
	}

	session, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or expired refresh token")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Token refresh failed", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Token refreshed successfully", sessionPayload(session))
}
