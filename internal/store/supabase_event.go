package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

const (
	eventsTable = "events"

	// eventOrganizerEmbed pulls the owning organizer's summary through the
	// events -> profiles foreign key.
	eventOrganizerEmbed = "profiles!events_organizer_id_fkey(id,name,email,avatar_url)"
)

type supabaseEventStore struct {
	read  *supabase.Client
	write *supabase.Client
}

// eventRow is an events row with the PostgREST-embedded organizer profile.
type eventRow struct {
	domain.Event
	Profiles *domain.ProfileSummary `json:"profiles"`
}

func (r eventRow) toDomain() domain.Event {
	event := r.Event
	event.Organizer = r.Profiles
	return event
}

func (s *supabaseEventStore) List(ctx context.Context, f EventFilter) ([]domain.Event, error) {
	query := url.Values{
		"select":   {"*," + eventOrganizerEmbed},
		"status":   {"eq." + string(domain.EventStatusActive)},
		"datetime": {"gte." + time.Now().UTC().Format(time.RFC3339)},
		"order":    {"datetime.asc"},
	}
	if f.City != "" {
		query.Set("city", "ilike.*"+f.City+"*")
	}
	if f.Category != "" && domain.ValidEventCategory(f.Category) {
		query.Set("category", "eq."+f.Category)
	}
	if f.Search != "" {
		query.Set("or", fmt.Sprintf("(title.ilike.*%s*,description.ilike.*%s*)", f.Search, f.Search))
	}

	var rows []eventRow
	if err := s.read.Select(ctx, eventsTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return eventRowsToDomain(rows), nil
}

func (s *supabaseEventStore) Trending(ctx context.Context, limit int) ([]domain.Event, error) {
	query := url.Values{
		"select":   {"*," + eventOrganizerEmbed},
		"status":   {"eq." + string(domain.EventStatusActive)},
		"datetime": {"gte." + time.Now().UTC().Format(time.RFC3339)},
		"order":    {"is_trending.desc"},
		"limit":    {strconv.Itoa(limit)},
	}

	var rows []eventRow
	if err := s.read.Select(ctx, eventsTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing trending events: %w", err)
	}
	return eventRowsToDomain(rows), nil
}

func (s *supabaseEventStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := url.Values{
		"select": {"*," + eventOrganizerEmbed},
		"id":     {"eq." + id.String()},
	}

	var row eventRow
	err := s.read.SelectOne(ctx, eventsTable, query.Encode(), &row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("fetching event: %w", err)
	}
	event := row.toDomain()
	return &event, nil
}

func (s *supabaseEventStore) ListByOrganizer(
	ctx context.Context,
	organizerID uuid.UUID,
) ([]domain.Event, error) {
	query := url.Values{
		"select":       {"*"},
		"organizer_id": {"eq." + organizerID.String()},
		"order":        {"created_at.desc"},
	}

	var rows []eventRow
	if err := s.read.Select(ctx, eventsTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing organizer events: %w", err)
	}
	return eventRowsToDomain(rows), nil
}

func (s *supabaseEventStore) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	payload := map[string]any{
		"organizer_id": event.OrganizerID.String(),
		"title":        event.Title,
		"description":  event.Description,
		"datetime":     event.StartsAt.UTC().Format(time.RFC3339),
		"location":     event.Location,
		"city":         event.City,
		"category":     event.Category,
		"status":       string(domain.EventStatusActive),
	}
	if event.EndsAt != nil {
		payload["end_datetime"] = event.EndsAt.UTC().Format(time.RFC3339)
	}
	if event.Address != "" {
		payload["address"] = event.Address
	}
	if event.ImageURL != "" {
		payload["image_url"] = event.ImageURL
	}
	if event.Capacity != nil {
		payload["capacity"] = *event.Capacity
	}

	var created domain.Event
	if err := s.write.Insert(ctx, eventsTable, payload, &created); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return &created, nil
}

func (s *supabaseEventStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) (*domain.Event, error) {
	query := url.Values{"id": {"eq." + id.String()}}

	var updated domain.Event
	err := s.write.Update(ctx, eventsTable, query.Encode(), fields, &updated)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("updating event: %w", err)
	}
	return &updated, nil
}

func eventRowsToDomain(rows []eventRow) []domain.Event {
	events := make([]domain.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
	}
	return events
}
