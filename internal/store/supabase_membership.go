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
	membersTable = "group_members"

	// memberProfileEmbed pulls the member's profile through the
	// group_members -> profiles foreign key.
	memberProfileEmbed = "profiles!group_members_user_id_fkey(id,name,email,avatar_url)"

	// memberGroupEmbed pulls the group, with its creator summary, through
	// the group_members -> groups foreign key.
	memberGroupEmbed = "groups!group_members_group_id_fkey(*,profiles!groups_creator_id_fkey(id,name,email,avatar_url))"
)

type supabaseMembershipStore struct {
	read  *supabase.Client
	write *supabase.Client
}

// membershipRow is a group_members row with the PostgREST-embedded profile
// and group relations.
type membershipRow struct {
	domain.GroupMembership
	Profiles *domain.ProfileSummary `json:"profiles"`
	Groups   *groupRow              `json:"groups"`
}

func (r membershipRow) toDomain() domain.GroupMembership {
	membership := r.GroupMembership
	membership.User = r.Profiles
	if r.Groups != nil {
		group := r.Groups.toDomain()
		membership.Group = &group
	}
	return membership
}

func memberPairQuery(groupID, userID uuid.UUID) url.Values {
	return url.Values{
		"group_id": {"eq." + groupID.String()},
		"user_id":  {"eq." + userID.String()},
	}
}

func (s *supabaseMembershipStore) Get(
	ctx context.Context,
	groupID, userID uuid.UUID,
) (*domain.GroupMembership, error) {
	query := memberPairQuery(groupID, userID)
	query.Set("select", "*")

	var membership domain.GroupMembership
	err := s.read.SelectOne(ctx, membersTable, query.Encode(), &membership)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("fetching membership: %w", err)
	}
	return &membership, nil
}

func (s *supabaseMembershipStore) Create(
	ctx context.Context,
	groupID, userID uuid.UUID,
	role domain.MembershipRole,
) (*domain.GroupMembership, error) {
	payload := map[string]any{
		"group_id": groupID.String(),
		"user_id":  userID.String(),
		"role":     string(role),
	}

	var created domain.GroupMembership
	if err := s.write.Insert(ctx, membersTable, payload, &created); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateMembership
		}
		return nil, fmt.Errorf("creating membership: %w", err)
	}
	return &created, nil
}

func (s *supabaseMembershipStore) Delete(ctx context.Context, groupID, userID uuid.UUID) error {
	if err := s.write.Delete(ctx, membersTable, memberPairQuery(groupID, userID).Encode()); err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}
	return nil
}

func (s *supabaseMembershipStore) CountMembers(ctx context.Context, groupID uuid.UUID) (int, error) {
	query := url.Values{
		"select":   {"id"},
		"group_id": {"eq." + groupID.String()},
	}
	count, err := s.read.Count(ctx, membersTable, query.Encode())
	if err != nil {
		return 0, fmt.Errorf("counting members: %w", err)
	}
	return count, nil
}

func (s *supabaseMembershipStore) CountAdmins(ctx context.Context, groupID uuid.UUID) (int, error) {
	query := url.Values{
		"select":   {"id"},
		"group_id": {"eq." + groupID.String()},
		"role":     {"eq." + string(domain.MembershipRoleAdmin)},
	}
	count, err := s.read.Count(ctx, membersTable, query.Encode())
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return count, nil
}

func (s *supabaseMembershipStore) ListMembers(
	ctx context.Context,
	groupID uuid.UUID,
) ([]domain.GroupMembership, error) {
	query := url.Values{
		"select":   {"*," + memberProfileEmbed},
		"group_id": {"eq." + groupID.String()},
		"order":    {"joined_at.asc"},
	}

	var rows []membershipRow
	if err := s.read.Select(ctx, membersTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return membershipRowsToDomain(rows), nil
}

func (s *supabaseMembershipStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.GroupMembership, error) {
	query := url.Values{
		"select":  {"*," + memberGroupEmbed},
		"user_id": {"eq." + userID.String()},
		"order":   {"joined_at.desc"},
	}

	var rows []membershipRow
	if err := s.read.Select(ctx, membersTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	return membershipRowsToDomain(rows), nil
}

func membershipRowsToDomain(rows []membershipRow) []domain.GroupMembership {
	memberships := make([]domain.GroupMembership, len(rows))
	for i, row := range rows {
		memberships[i] = row.toDomain()
	}
	return memberships
}
