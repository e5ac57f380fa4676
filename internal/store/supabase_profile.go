package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

const profilesTable = "profiles"

type supabaseProfileStore struct {
	read  *supabase.Client
	write *supabase.Client
}

func (s *supabaseProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := url.Values{
		"select": {"*"},
		"id":     {"eq." + id.String()},
	}

	var profile domain.Profile
	err := s.read.SelectOne(ctx, profilesTable, query.Encode(), &profile)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &profile, nil
}

func (s *supabaseProfileStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) (*domain.Profile, error) {
	query := url.Values{"id": {"eq." + id.String()}}

	var profile domain.Profile
	err := s.write.Update(ctx, profilesTable, query.Encode(), fields, &profile)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return &profile, nil
}
