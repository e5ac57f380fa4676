package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/mocks"
	"github.com/eventsaga/eventsaga-api/internal/store"
)

func activeEvent(organizerID uuid.UUID) *domain.Event {
	return &domain.Event{
		ID:          uuid.New(),
		OrganizerID: organizerID,
		Title:       "Go Meetup",
		Description: "Monthly Go meetup with lightning talks",
		StartsAt:    time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second),
		Location:    "Community Hall",
		City:        "Austin",
		Category:    "tech",
		Status:      domain.EventStatusActive,
	}
}

// eventStoreWith returns a store serving a single event by ID.
func eventStoreWith(event *domain.Event) *mocks.MockEventStore {
	return &mocks.MockEventStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
			if id == event.ID {
				return event, nil
			}
			return nil, store.ErrEventNotFound
		},
	}
}

func TestListEvents(t *testing.T) {
	t.Parallel()

	owner := organizer()
	events := []domain.Event{*activeEvent(owner.ID), *activeEvent(owner.ID)}

	t.Run("anonymous caller gets counts without attendance checks", func(t *testing.T) {
		t.Parallel()

		var gotFilter store.EventFilter
		eventStore := &mocks.MockEventStore{
			ListFn: func(ctx context.Context, f store.EventFilter) ([]domain.Event, error) {
				gotFilter = f
				return events, nil
			},
		}
		rsvps := &mocks.MockRSVPStore{
			CountFn: func(ctx context.Context, eventID uuid.UUID) (int, error) { return 3, nil },
			// ExistsFn deliberately unset: an attendance check for an
			// anonymous caller would panic.
		}
		h := NewEventHandler(eventStore, rsvps)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/events?city=Austin&category=TECH&search=go", nil)
		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, store.EventFilter{City: "Austin", Category: "tech", Search: "go"}, gotFilter)

		data := dataMap(t, decodeEnv(t, rec))
		list, ok := data["events"].([]any)
		require.True(t, ok)
		require.Len(t, list, 2)
		first := list[0].(map[string]any)
		assert.Equal(t, float64(3), first["rsvp_count"])
		assert.Equal(t, false, first["user_has_rsvped"])
	})

	t.Run("authenticated caller gets attendance flags", func(t *testing.T) {
		t.Parallel()

		caller := attendee()
		eventStore := &mocks.MockEventStore{
			ListFn: func(ctx context.Context, f store.EventFilter) ([]domain.Event, error) {
				return events[:1], nil
			},
		}
		rsvps := &mocks.MockRSVPStore{
			CountFn: func(ctx context.Context, eventID uuid.UUID) (int, error) { return 1, nil },
			ExistsFn: func(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
				assert.Equal(t, caller.ID, userID)
				return true, nil
			},
		}
		h := NewEventHandler(eventStore, rsvps)

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodGet, "/api/events", nil), caller)
		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := dataMap(t, decodeEnv(t, rec))
		first := data["events"].([]any)[0].(map[string]any)
		assert.Equal(t, true, first["user_has_rsvped"])
	})
}

func TestTrendingEvents(t *testing.T) {
	t.Parallel()

	owner := organizer()
	quiet := *activeEvent(owner.ID)
	popular := *activeEvent(owner.ID)
	counts := map[uuid.UUID]int{quiet.ID: 2, popular.ID: 40}

	eventStore := &mocks.MockEventStore{
		TrendingFn: func(ctx context.Context, limit int) ([]domain.Event, error) {
			assert.Equal(t, 10, limit)
			return []domain.Event{quiet, popular}, nil
		},
	}
	rsvps := &mocks.MockRSVPStore{
		CountFn: func(ctx context.Context, eventID uuid.UUID) (int, error) {
			return counts[eventID], nil
		},
	}
	h := NewEventHandler(eventStore, rsvps)

	rec := httptest.NewRecorder()
	h.Trending(rec, httptest.NewRequest(http.MethodGet, "/api/events/trending", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, decodeEnv(t, rec))
	list := data["events"].([]any)
	require.Len(t, list, 2)
	// Busiest event first.
	assert.Equal(t, popular.ID.String(), list[0].(map[string]any)["id"])
	assert.Equal(t, quiet.ID.String(), list[1].(map[string]any)["id"])
}

func TestGetEvent(t *testing.T) {
	t.Parallel()

	owner := organizer()

	rsvps := &mocks.MockRSVPStore{
		CountFn:  func(ctx context.Context, eventID uuid.UUID) (int, error) { return 5, nil },
		ExistsFn: func(ctx context.Context, eventID, userID uuid.UUID) (bool, error) { return false, nil },
	}

	getReq := func(event *domain.Event, caller *domain.Profile) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/events/"+event.ID.String(), nil)
		req = withPathParams(req, map[string]string{"event_id": event.ID.String()})
		if caller != nil {
			req = withCaller(req, caller)
		}
		return req
	}

	t.Run("active event visible to anyone", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		h := NewEventHandler(eventStoreWith(event), rsvps)

		rec := httptest.NewRecorder()
		h.Get(rec, getReq(event, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		data := dataMap(t, decodeEnv(t, rec))
		assert.Equal(t, event.ID.String(), data["id"])
		assert.Equal(t, float64(5), data["rsvp_count"])
	})

	t.Run("canceled event hidden from others", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		event.Status = domain.EventStatusCanceled
		h := NewEventHandler(eventStoreWith(event), rsvps)

		for _, caller := range []*domain.Profile{nil, attendee()} {
			rec := httptest.NewRecorder()
			h.Get(rec, getReq(event, caller))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Event not found", decodeEnv(t, rec).Error)
		}
	})

	t.Run("canceled event visible to its organizer", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		event.Status = domain.EventStatusCanceled
		h := NewEventHandler(eventStoreWith(event), rsvps)

		rec := httptest.NewRecorder()
		h.Get(rec, getReq(event, owner))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()

		h := NewEventHandler(eventStoreWith(activeEvent(owner.ID)), rsvps)
		missing := uuid.New()
		rec := httptest.NewRecorder()
		req := withPathParams(httptest.NewRequest(http.MethodGet, "/api/events/"+missing.String(), nil),
			map[string]string{"event_id": missing.String()})
		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Event not found", decodeEnv(t, rec).Error)
	})
}

func TestCreateEvent(t *testing.T) {
	t.Parallel()

	validBody := `{
		"title": "Go Meetup",
		"description": "Monthly Go meetup with lightning talks",
		"datetime": "2026-10-01T19:00:00Z",
		"location": "Community Hall",
		"city": "Austin",
		"category": "Tech",
		"capacity": 80
	}`

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		caller := organizer()
		eventStore := &mocks.MockEventStore{
			CreateFn: func(ctx context.Context, event *domain.Event) (*domain.Event, error) {
				assert.Equal(t, caller.ID, event.OrganizerID)
				assert.Equal(t, "tech", event.Category)
				assert.Equal(t, domain.EventStatusActive, event.Status)
				require.NotNil(t, event.Capacity)
				assert.Equal(t, 80, *event.Capacity)
				stored := *event
				stored.ID = uuid.New()
				return &stored, nil
			},
		}
		h := NewEventHandler(eventStore, &mocks.MockRSVPStore{})

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(validBody)), caller)
		h.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnv(t, rec)
		assert.Equal(t, "Event created successfully", env.Message)
		data := dataMap(t, env)
		assert.Equal(t, float64(0), data["rsvp_count"])
		assert.Equal(t, false, data["user_has_rsvped"])
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			body      string
			wantField string
			wantMsg   string
		}{
			{
				name:      "missing required fields",
				body:      `{"title": "Go Meetup"}`,
				wantField: "description",
				wantMsg:   "Description is required",
			},
			{
				name: "unknown category",
				body: `{"title":"Go Meetup","description":"Monthly Go meetup talks","datetime":"2026-10-01T19:00:00Z",` +
					`"location":"Hall","city":"Austin","category":"knitting"}`,
				wantField: "category",
				wantMsg:   "Category must be one of: " + strings.Join(domain.EventCategories, ", "),
			},
			{
				name: "bad datetime",
				body: `{"title":"Go Meetup","description":"Monthly Go meetup talks","datetime":"next tuesday",` +
					`"location":"Hall","city":"Austin","category":"tech"}`,
				wantField: "datetime",
				wantMsg:   "Datetime must be a valid ISO 8601 timestamp",
			},
			{
				name: "non-numeric capacity",
				body: `{"title":"Go Meetup","description":"Monthly Go meetup talks","datetime":"2026-10-01T19:00:00Z",` +
					`"location":"Hall","city":"Austin","category":"tech","capacity":"lots"}`,
				wantField: "capacity",
				wantMsg:   "Capacity must be a valid number",
			},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				h := NewEventHandler(&mocks.MockEventStore{}, &mocks.MockRSVPStore{})
				rec := httptest.NewRecorder()
				req := withCaller(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(tc.body)), organizer())
				h.Create(rec, req)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				env := decodeEnv(t, rec)
				assert.Equal(t, "Validation failed", env.Error)
				assert.Equal(t, tc.wantMsg, env.ValidationErrors[tc.wantField])
			})
		}
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		h := NewEventHandler(&mocks.MockEventStore{}, &mocks.MockRSVPStore{})
		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("")), organizer())
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Request body is required", decodeEnv(t, rec).Error)
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Parallel()

	owner := organizer()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		eventStore := eventStoreWith(event)
		eventStore.UpdateFn = func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Event, error) {
			assert.Equal(t, event.ID, id)
			assert.Equal(t, map[string]any{"title": "Renamed Meetup", "capacity": 120}, fields)
			updated := *event
			updated.Title = "Renamed Meetup"
			return &updated, nil
		}
		h := NewEventHandler(eventStore, &mocks.MockRSVPStore{})

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodPut, "/api/events/"+event.ID.String(),
			strings.NewReader(`{"title":"Renamed Meetup","capacity":120}`)), owner)
		req = withPathParams(req, map[string]string{"event_id": event.ID.String()})
		h.Update(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Event updated successfully", decodeEnv(t, rec).Message)
	})

	t.Run("not the owner", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		h := NewEventHandler(eventStoreWith(event), &mocks.MockRSVPStore{})

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodPut, "/api/events/"+event.ID.String(),
			strings.NewReader(`{"title":"Hijacked"}`)), organizer())
		req = withPathParams(req, map[string]string{"event_id": event.ID.String()})
		h.Update(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You can only update your own events", decodeEnv(t, rec).Error)
	})

	t.Run("invalid field", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		h := NewEventHandler(eventStoreWith(event), &mocks.MockRSVPStore{})

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodPut, "/api/events/"+event.ID.String(),
			strings.NewReader(`{"capacity":0}`)), owner)
		req = withPathParams(req, map[string]string{"event_id": event.ID.String()})
		h.Update(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnv(t, rec)
		assert.Equal(t, "Capacity must be at least 1", env.ValidationErrors["capacity"])
	})

	t.Run("no recognized fields", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		h := NewEventHandler(eventStoreWith(event), &mocks.MockRSVPStore{})

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodPut, "/api/events/"+event.ID.String(),
			strings.NewReader(`{"organizer_id":"`+uuid.New().String()+`"}`)), owner)
		req = withPathParams(req, map[string]string{"event_id": event.ID.String()})
		h.Update(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No fields to update", decodeEnv(t, rec).Error)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Parallel()

	owner := organizer()

	t.Run("cancels the event", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		eventStore := eventStoreWith(event)
		eventStore.UpdateFn = func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Event, error) {
			assert.Equal(t, map[string]any{"status": "canceled"}, fields)
			updated := *event
			updated.Status = domain.EventStatusCanceled
			return &updated, nil
		}
		h := NewEventHandler(eventStore, &mocks.MockRSVPStore{})

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodDelete, "/api/events/"+event.ID.String(), nil), owner)
		req = withPathParams(req, map[string]string{"event_id": event.ID.String()})
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Event canceled successfully", decodeEnv(t, rec).Message)
	})

	t.Run("not the owner", func(t *testing.T) {
		t.Parallel()

		event := activeEvent(owner.ID)
		h := NewEventHandler(eventStoreWith(event), &mocks.MockRSVPStore{})

		rec := httptest.NewRecorder()
		req := withCaller(httptest.NewRequest(http.MethodDelete, "/api/events/"+event.ID.String(), nil), organizer())
		req = withPathParams(req, map[string]string{"event_id": event.ID.String()})
		h.Delete(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You can only delete your own events", decodeEnv(t, rec).Error)
	})
}

func TestMyEvents(t *testing.T) {
	t.Parallel()

	owner := organizer()
	canceled := *activeEvent(owner.ID)
	canceled.Status = domain.EventStatusCanceled
	mine := []domain.Event{*activeEvent(owner.ID), canceled}

	eventStore := &mocks.MockEventStore{
		ListByOrganizerFn: func(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error) {
			assert.Equal(t, owner.ID, organizerID)
			return mine, nil
		},
	}
	rsvps := &mocks.MockRSVPStore{
		CountFn: func(ctx context.Context, eventID uuid.UUID) (int, error) { return 7, nil },
	}
	h := NewEventHandler(eventStore, rsvps)

	rec := httptest.NewRecorder()
	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/events/organizer/my-events", nil), owner)
	h.MyEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, decodeEnv(t, rec))
	list := data["events"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, float64(7), first["rsvp_count"])
	// The organizer listing carries no per-caller attendance flag.
	assert.NotContains(t, first, "user_has_rsvped")
	// Canceled events are included.
	assert.Equal(t, "canceled", list[1].(map[string]any)["status"])
}
