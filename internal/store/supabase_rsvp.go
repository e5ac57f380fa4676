package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

const (
	rsvpsTable = "rsvps"

	// rsvpEventEmbed pulls the event, with its organizer summary, through
	// the rsvps -> events foreign key.
	rsvpEventEmbed = "events!rsvps_event_id_fkey(*,profiles!events_organizer_id_fkey(id,name,email,avatar_url))"
)

type supabaseRSVPStore struct {
	read  *supabase.Client
	write *supabase.Client
}

// rsvpRow is an rsvps row with the PostgREST-embedded event.
type rsvpRow struct {
	domain.RSVP
	Events *eventRow `json:"events"`
}

func (r rsvpRow) toDomain() domain.RSVP {
	rsvp := r.RSVP
	if r.Events != nil {
		event := r.Events.toDomain()
		rsvp.Event = &event
	}
	return rsvp
}

func pairQuery(eventID, userID uuid.UUID) url.Values {
	return url.Values{
		"event_id": {"eq." + eventID.String()},
		"user_id":  {"eq." + userID.String()},
	}
}

func (s *supabaseRSVPStore) Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	query := pairQuery(eventID, userID)
	query.Set("select", "id")

	var rsvp domain.RSVP
	err := s.read.SelectOne(ctx, rsvpsTable, query.Encode(), &rsvp)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking rsvp: %w", err)
	}
	return true, nil
}

func (s *supabaseRSVPStore) Count(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := url.Values{
		"select":   {"id"},
		"event_id": {"eq." + eventID.String()},
	}
	count, err := s.read.Count(ctx, rsvpsTable, query.Encode())
	if err != nil {
		return 0, fmt.Errorf("counting rsvps: %w", err)
	}
	return count, nil
}

func (s *supabaseRSVPStore) Create(ctx context.Context, eventID, userID uuid.UUID) (*domain.RSVP, error) {
	payload := map[string]any{
		"event_id": eventID.String(),
		"user_id":  userID.String(),
	}

	var created domain.RSVP
	if err := s.write.Insert(ctx, rsvpsTable, payload, &created); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRSVP
		}
		return nil, fmt.Errorf("creating rsvp: %w", err)
	}
	return &created, nil
}

func (s *supabaseRSVPStore) Delete(ctx context.Context, eventID, userID uuid.UUID) error {
	if err := s.write.Delete(ctx, rsvpsTable, pairQuery(eventID, userID).Encode()); err != nil {
		return fmt.Errorf("deleting rsvp: %w", err)
	}
	return nil
}

func (s *supabaseRSVPStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RSVP, error) {
	query := url.Values{
		"select":  {"*," + rsvpEventEmbed},
		"user_id": {"eq." + userID.String()},
		"order":   {"created_at.desc"},
	}

	var rows []rsvpRow
	if err := s.read.Select(ctx, rsvpsTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing rsvps: %w", err)
	}

	rsvps := make([]domain.RSVP, len(rows))
	for i, row := range rows {
		rsvps[i] = row.toDomain()
	}
	return rsvps, nil
}
