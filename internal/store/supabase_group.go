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
	groupsTable = "groups"

	// groupCreatorEmbed pulls the creating account's summary through the
	// groups -> profiles foreign key.
	groupCreatorEmbed = "profiles!groups_creator_id_fkey(id,name,email,avatar_url)"
)

type supabaseGroupStore struct {
	read  *supabase.Client
	write *supabase.Client
}

// groupRow is a groups row with the PostgREST-embedded creator profile.
type groupRow struct {
	domain.Group
	Profiles *domain.ProfileSummary `json:"profiles"`
}

func (r groupRow) toDomain() domain.Group {
	group := r.Group
	group.Creator = r.Profiles
	return group
}

func (s *supabaseGroupStore) List(ctx context.Context, f GroupFilter) ([]domain.Group, error) {
	query := url.Values{
		"select":    {"*," + groupCreatorEmbed},
		"is_public": {"eq.true"},
		"order":     {"created_at.desc"},
	}
	if f.Category != "" {
		query.Set("category", "eq."+f.Category)
	}
	if f.Search != "" {
		query.Set("or", fmt.Sprintf("(name.ilike.*%s*,description.ilike.*%s*)", f.Search, f.Search))
	}

	var rows []groupRow
	if err := s.read.Select(ctx, groupsTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	groups := make([]domain.Group, len(rows))
	for i, row := range rows {
		groups[i] = row.toDomain()
	}
	return groups, nil
}

func (s *supabaseGroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := url.Values{
		"select": {"*," + groupCreatorEmbed},
		"id":     {"eq." + id.String()},
	}

	var row groupRow
	err := s.read.SelectOne(ctx, groupsTable, query.Encode(), &row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("fetching group: %w", err)
	}
	group := row.toDomain()
	return &group, nil
}

func (s *supabaseGroupStore) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	payload := map[string]any{
		"creator_id":  group.CreatorID.String(),
		"name":        group.Name,
		"description": group.Description,
		"is_public":   group.IsPublic,
	}
	if group.Category != "" {
		payload["category"] = group.Category
	}
	if group.AvatarURL != "" {
		payload["avatar_url"] = group.AvatarURL
	}

	var created domain.Group
	if err := s.write.Insert(ctx, groupsTable, payload, &created); err != nil {
		return nil, fmt.Errorf("creating group: %w", err)
	}
	return &created, nil
}

func (s *supabaseGroupStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) (*domain.Group, error) {
	query := url.Values{"id": {"eq." + id.String()}}

	var updated domain.Group
	err := s.write.Update(ctx, groupsTable, query.Encode(), fields, &updated)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("updating group: %w", err)
	}
	return &updated, nil
}
