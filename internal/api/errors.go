package api

import (
	"errors"
	"net/http"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/service/auth"
	"github.com/eventsaga/eventsaga-api/internal/store"
)

// MapErrorToStatusCode maps sentinel errors to HTTP status codes. Unknown
// errors stay internal.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrEventNotFound),
		errors.Is(err, store.ErrGroupNotFound),
		errors.Is(err, store.ErrMembershipNotFound),
		errors.Is(err, store.ErrMessageNotFound),
		errors.Is(err, store.ErrRSVPNotFound):
		return http.StatusNotFound

	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, store.ErrDuplicateRSVP),
		errors.Is(err, store.ErrDuplicateMembership):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for a sentinel
// error. Raw error text never reaches responses; unknown errors collapse to
// a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return "Invalid or expired refresh token"
	case errors.Is(err, auth.ErrEmailTaken):
		return "Email already registered"

	case errors.Is(err, store.ErrProfileNotFound):
		return "User not found"
	case errors.Is(err, store.ErrEventNotFound):
		return "Event not found"
	case errors.Is(err, store.ErrGroupNotFound):
		return "Group not found"
	case errors.Is(err, store.ErrMembershipNotFound):
		return "You are not a member of this group"
	case errors.Is(err, store.ErrMessageNotFound):
		return "Message not found"
	case errors.Is(err, store.ErrRSVPNotFound):
		return "RSVP not found"

	case errors.Is(err, store.ErrDuplicateRSVP):
		return "You have already RSVP'd to this event"
	case errors.Is(err, store.ErrDuplicateMembership):
		return "You are already a member of this group"

	default:
		return "An unexpected error occurred"
	}
}

// HandleStoreError writes the envelope for an error from a store or service
// call, logging the raw error server-side.
func HandleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError {
		shared.RespondWithErrorAndLog(w, r, status, msg, err)
		return
	}
	shared.RespondWithError(w, r, status, msg)
}
