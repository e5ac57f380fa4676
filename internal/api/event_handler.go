package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/store"
	"github.com/eventsaga/eventsaga-api/internal/validation"
)

// trendingLimit caps the trending listing.
const trendingLimit = 10

// EventHandler handles event discovery and organizer-side CRUD.
type EventHandler struct {
	events store.EventStore
	rsvps  store.RSVPStore
}

// NewEventHandler creates a new EventHandler with the given dependencies.
func NewEventHandler(events store.EventStore, rsvps store.RSVPStore) *EventHandler {
	return &EventHandler{
		events: events,
		rsvps:  rsvps,
	}
}

// enrich builds the caller-facing view of an event: attendance count and
// whether the caller has RSVP'd.
func (h *EventHandler) enrich(
	ctx context.Context,
	event domain.Event,
	caller *domain.Profile,
) (EventView, error) {
	count, err := h.rsvps.Count(ctx, event.ID)
	if err != nil {
		return EventView{}, fmt.Errorf("counting rsvps for event %s: %w", event.ID, err)
	}

	view := EventView{Event: event, RSVPCount: count}
	if caller != nil {
		exists, err := h.rsvps.Exists(ctx, event.ID, caller.ID)
		if err != nil {
			return EventView{}, fmt.Errorf("checking rsvp for event %s: %w", event.ID, err)
		}
		view.UserHasRSVPed = exists
	}
	return view, nil
}

// List handles GET /api/events. Optional auth.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.EventFilter{
		City:     strings.TrimSpace(r.URL.Query().Get("city")),
		Category: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}

	events, err := h.events.List(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch events", err)
		return
	}

	caller := optionalCaller(r)
	views := make([]EventView, 0, len(events))
	for _, event := range events {
		view, err := h.enrich(r.Context(), event, caller)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch events", err)
			return
		}
		views = append(views, view)
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{"events": views})
}

// Trending handles GET /api/events/trending. The store returns events
// favoring the trending flag; ties are broken by attendance.
func (h *EventHandler) Trending(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.Trending(r.Context(), trendingLimit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch trending events", err)
		return
	}

	views := make([]EventView, 0, len(events))
	for _, event := range events {
		view, err := h.enrich(r.Context(), event, nil)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch trending events", err)
			return
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].RSVPCount > views[j].RSVPCount
	})
	if len(views) > trendingLimit {
		views = views[:trendingLimit]
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{"events": views})
}

// Get handles GET /api/events/{event_id}. Optional auth. Non-active events
// are visible only to the owning organizer.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "event_id")
	if !ok {
		return
	}

	event, err := h.events.GetByID(r.Context(), eventID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	caller := optionalCaller(r)
	if event.Status != domain.EventStatusActive {
		if caller == nil || caller.ID != event.OrganizerID {
			shared.RespondWithError(w, r, http.StatusNotFound, "Event not found")
			return
		}
	}

	view, err := h.enrich(r.Context(), *event, caller)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", view)
}

// Create handles POST /api/events. Organizer role required.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	required := []string{"title", "description", "datetime", "location", "city", "category"}
	if fieldErrors := validation.RequiredFields(data, required); len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	title, _ := stringField(data, "title")
	description, _ := stringField(data, "description")
	startsAtRaw, _ := stringField(data, "datetime")
	location, _ := stringField(data, "location")
	city, _ := stringField(data, "city")
	category, _ := stringField(data, "category")
	category = strings.ToLower(category)

	var capacity *int
	if raw, present := data["capacity"]; present && raw != nil {
		c, ok := intField(data, "capacity")
		if !ok {
			shared.RespondWithValidationErrors(w, r, map[string]string{"capacity": "Capacity must be a valid number"})
			return
		}
		capacity = &c
	}

	if fieldErrors := validation.EventPayload(title, description, startsAtRaw, location, capacity); len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	if !domain.ValidEventCategory(category) {
		shared.RespondWithValidationErrors(w, r, map[string]string{
			"category": "Category must be one of: " + strings.Join(domain.EventCategories, ", "),
		})
		return
	}

	startsAt, err := time.Parse(time.RFC3339, startsAtRaw)
	if err != nil {
		shared.RespondWithValidationErrors(w, r, map[string]string{"datetime": "Datetime must be a valid ISO 8601 timestamp"})
		return
	}

	event := &domain.Event{
		OrganizerID: caller.ID,
		Title:       title,
		Description: description,
		StartsAt:    startsAt,
		Location:    location,
		City:        city,
		Category:    category,
		Capacity:    capacity,
		Status:      domain.EventStatusActive,
	}

	if raw, present := stringField(data, "end_datetime"); present && raw != "" {
		endsAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithValidationErrors(w, r, map[string]string{"end_datetime": "End datetime must be a valid ISO 8601 timestamp"})
			return
		}
		event.EndsAt = &endsAt
	}
	if address, present := stringField(data, "address"); present {
		event.Address = address
	}
	if imageURL, present := stringField(data, "image_url"); present {
		event.ImageURL = imageURL
	}

	created, err := h.events.Create(r.Context(), event)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, "Event created successfully", EventView{
		Event:         *created,
		RSVPCount:     0,
		UserHasRSVPed: false,
	})
}

// Update handles PUT /api/events/{event_id}. Owning organizer only.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	eventID, ok := pathUUID(w, r, "event_id")
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

	event, err := h.events.GetByID(r.Context(), eventID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}
	if event.OrganizerID != caller.ID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You can only update your own events")
		return
	}

	fields, fieldErrors := buildEventUpdate(data)
	if len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}
	if len(fields) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}

	updated, err := h.events.Update(r.Context(), eventID, fields)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Event updated successfully", updated)
}

// buildEventUpdate maps present payload fields to column updates,
// validating each. The first invalid field stops the build.
func buildEventUpdate(data map[string]any) (map[string]any, map[string]string) {
	fields := map[string]any{}

	if _, present := data["title"]; present {
		title, _ := stringField(data, "title")
		if len(title) < 3 {
			return nil, map[string]string{"title": "Title must be at least 3 characters long"}
		}
		if len(title) > 200 {
			return nil, map[string]string{"title": "Title must not exceed 200 characters"}
		}
		fields["title"] = title
	}
	if _, present := data["description"]; present {
		description, _ := stringField(data, "description")
		if len(description) < 10 {
			return nil, map[string]string{"description": "Description must be at least 10 characters long"}
		}
		if len(description) > 5000 {
			return nil, map[string]string{"description": "Description must not exceed 5000 characters"}
		}
		fields["description"] = description
	}
	if _, present := data["datetime"]; present {
		raw, _ := stringField(data, "datetime")
		if _, err := time.Parse(time.RFC3339, raw); err != nil {
			return nil, map[string]string{"datetime": "Datetime must be a valid ISO 8601 timestamp"}
		}
		fields["datetime"] = raw
	}
	if _, present := data["end_datetime"]; present {
		if data["end_datetime"] == nil {
			fields["end_datetime"] = nil
		} else {
			raw, _ := stringField(data, "end_datetime")
			if _, err := time.Parse(time.RFC3339, raw); err != nil {
				return nil, map[string]string{"end_datetime": "End datetime must be a valid ISO 8601 timestamp"}
			}
			fields["end_datetime"] = raw
		}
	}
	if _, present := data["location"]; present {
		location, _ := stringField(data, "location")
		fields["location"] = location
	}
	if _, present := data["city"]; present {
		city, _ := stringField(data, "city")
		fields["city"] = city
	}
	if raw, present := data["address"]; present {
		if raw == nil {
			fields["address"] = nil
		} else {
			address, _ := stringField(data, "address")
			fields["address"] = address
		}
	}
	if _, present := data["category"]; present {
		category, _ := stringField(data, "category")
		category = strings.ToLower(category)
		if !domain.ValidEventCategory(category) {
			return nil, map[string]string{
				"category": "Category must be one of: " + strings.Join(domain.EventCategories, ", "),
			}
		}
		fields["category"] = category
	}
	if raw, present := data["image_url"]; present {
		if raw == nil {
			fields["image_url"] = nil
		} else {
			imageURL, _ := stringField(data, "image_url")
			fields["image_url"] = imageURL
		}
	}
	if raw, present := data["capacity"]; present && raw != nil {
		capacity, ok := intField(data, "capacity")
		if !ok {
			return nil, map[string]string{"capacity": "Capacity must be a valid number"}
		}
		if capacity < 1 {
			return nil, map[string]string{"capacity": "Capacity must be at least 1"}
		}
		fields["capacity"] = capacity
	}
	if _, present := data["status"]; present {
		status, _ := stringField(data, "status")
		status = strings.ToLower(status)
		if !domain.ValidEventStatus(domain.EventStatus(status)) {
			return nil, map[string]string{"status": "Status must be active, canceled, or completed"}
		}
		fields["status"] = status
	}

	return fields, nil
}

// Delete handles DELETE /api/events/{event_id}. Owning organizer only;
// deletion is a status transition to canceled.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if event.OrganizerID != caller.ID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You can only delete your own events")
		return
	}

	if _, err := h.events.Update(r.Context(), eventID, map[string]any{"status": string(domain.EventStatusCanceled)}); err != nil {
		HandleStoreError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Event canceled successfully", nil)
}

// MyEvents handles GET /api/events/organizer/my-events. Organizer role
// required. Every status is included.
func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}

	events, err := h.events.ListByOrganizer(r.Context(), caller.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch events", err)
		return
	}

	views := make([]OrganizerEventView, 0, len(events))
	for _, event := range events {
		count, err := h.rsvps.Count(r.Context(), event.ID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch events", err)
			return
		}
		views = append(views, OrganizerEventView{Event: event, RSVPCount: count})
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{"events": views})
}
