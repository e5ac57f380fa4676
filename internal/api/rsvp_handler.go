package api

import (
	"errors"
	"net/http"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/store"
)

// RSVPHandler handles event attendance. All routes require auth.
type RSVPHandler struct {
	events store.EventStore
	rsvps  store.RSVPStore
}

// NewRSVPHandler creates a new RSVPHandler with the given dependencies.
func NewRSVPHandler(events store.EventStore, rsvps store.RSVPStore) *RSVPHandler {
	return &RSVPHandler{
		events: events,
		rsvps:  rsvps,
	}
}

// Create handles POST /api/rsvps/{event_id}. Checks run in order: event
// active, no duplicate, capacity. The pre-checks give precise messages; the
// backend's unique constraint guards the insert race and maps to the same
// duplicate rejection.
func (h *RSVPHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	eventID, ok := pathUUID(w, r, "event_id")
	if !ok {
		return
	}

	event, err := h.events.GetByID(r.Context(), eventID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}
	if event.Status != domain.EventStatusActive {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Cannot RSVP to inactive event")
		return
	}

	exists, err := h.rsvps.Exists(r.Context(), eventID, caller.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create RSVP", err)
		return
	}
	if exists {
		shared.RespondWithError(w, r, http.StatusBadRequest, "You have already RSVP'd to this event")
		return
	}

	if event.Capacity != nil {
		count, err := h.rsvps.Count(r.Context(), eventID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create RSVP", err)
			return
		}
		if event.AtCapacity(count) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Event is at full capacity")
			return
		}
	}

	rsvp, err := h.rsvps.Create(r.Context(), eventID, caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateRSVP) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "You have already RSVP'd to this event")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create RSVP", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, "RSVP successful", map[string]any{
		"rsvp": rsvp,
		"event": eventRef{
			ID:       event.ID.String(),
			Title:    event.Title,
			StartsAt: event.StartsAt,
		},
	})
}

// Delete handles DELETE /api/rsvps/{event_id}.
func (h *RSVPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	eventID, ok := pathUUID(w, r, "event_id")
	if !ok {
		return
	}

	exists, err := h.rsvps.Exists(r.Context(), eventID, caller.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to cancel RSVP", err)
		return
	}
	if !exists {
		shared.RespondWithError(w, r, http.StatusNotFound, "RSVP not found")
		return
	}

	if err := h.rsvps.Delete(r.Context(), eventID, caller.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to cancel RSVP", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "RSVP canceled successfully", nil)
}

// MyRSVPs handles GET /api/rsvps/my-rsvps: the caller's RSVP'd events,
// newest RSVP first, each carrying when the caller RSVP'd and the current
// attendance count.
func (h *RSVPHandler) MyRSVPs(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}

	rsvps, err := h.rsvps.ListByUser(r.Context(), caller.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch RSVPs", err)
		return
	}

	views := make([]EventView, 0, len(rsvps))
	for _, rsvp := range rsvps {
		if rsvp.Event == nil {
			continue
		}
		count, err := h.rsvps.Count(r.Context(), rsvp.Event.ID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch RSVPs", err)
			return
		}
		rsvpedAt := rsvp.CreatedAt
		views = append(views, EventView{
			Event:         *rsvp.Event,
			RSVPCount:     count,
			UserHasRSVPed: true,
			RSVPedAt:      &rsvpedAt,
		})
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{"events": views})
}
