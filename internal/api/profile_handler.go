package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/store"
	"github.com/eventsaga/eventsaga-api/internal/validation"
)

// ProfileHandler handles public profile reads and the caller's own profile
// updates.
type ProfileHandler struct {
	profiles store.ProfileStore
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles store.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/profile/{user_id}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "user_id")
	if !ok {
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), userID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "", profile)
}

// Update handles PUT /api/profile. Requires auth. Only fields present in
// the body are touched; explicit nulls clear optional fields.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}

	data, err := shared.DecodeJSONMap(r)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	fields := map[string]any{}

	if _, present := data["name"]; present {
		name, _ := stringField(data, "name")
		if err := validation.Name(name); err != nil {
			shared.RespondWithValidationErrors(w, r, map[string]string{"name": err.Error()})
			return
		}
		fields["name"] = name
	}

	if raw, present := data["bio"]; present {
		if raw == nil {
			fields["bio"] = nil
		} else {
			bio, _ := stringField(data, "bio")
			if len(bio) > 500 {
				shared.RespondWithValidationErrors(w, r, map[string]string{"bio": "Bio must not exceed 500 characters"})
				return
			}
			fields["bio"] = bio
		}
	}

	if raw, present := data["location"]; present {
		if raw == nil {
			fields["location"] = nil
		} else {
			location, _ := stringField(data, "location")
			if len(location) > 100 {
				shared.RespondWithValidationErrors(w, r, map[string]string{"location": "Location must not exceed 100 characters"})
				return
			}
			fields["location"] = location
		}
	}

	if raw, present := data["avatar_url"]; present {
		if raw == nil {
			fields["avatar_url"] = nil
		} else {
			avatarURL, _ := stringField(data, "avatar_url")
			if !strings.HasPrefix(avatarURL, "http://") && !strings.HasPrefix(avatarURL, "https://") {
				shared.RespondWithValidationErrors(w, r, map[string]string{
					"avatar_url": "Avatar URL must be a valid HTTP/HTTPS URL",
				})
				return
			}
			fields["avatar_url"] = avatarURL
		}
	}

	if len(fields) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}

	updated, err := h.profiles.Update(r.Context(), caller.ID, fields)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Profile updated successfully", updated)
}

// UpdateRole handles PATCH /api/profile/role. Requires auth.
func (h *ProfileHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}

	data, err := shared.DecodeJSONMap(r)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	role, _ := stringField(data, "role")
	role = strings.ToLower(role)
	if err := validation.Role(role); err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{"role": err.Error()})
		return
	}

	updated, err := h.profiles.Update(r.Context(), caller.ID, map[string]any{"role": role})
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, fmt.Sprintf("Role updated to %s", role), updated)
}
