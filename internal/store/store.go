// Package store defines the persistence interfaces backed by the external
// Supabase backend, together with the sentinel errors the API layer maps to
// HTTP status codes. Implementations translate backend HTTP responses into
// domain entities; they never own data themselves.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/domain"
)

// ProfileStore reads and updates account profile records.
type ProfileStore interface {
	// GetByID returns the profile with the given ID, or ErrProfileNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// Update applies the given column values to the profile and returns the
	// updated record. Returns ErrProfileNotFound when no row matched.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Profile, error)
}

// EventFilter narrows an event listing.
type EventFilter struct {
	City     string
	Category string
	Search   string
}

// EventStore reads and mutates event records.
type EventStore interface {
	// List returns active future events matching the filter, soonest first,
	// with organizer summaries embedded.
	List(ctx context.Context, f EventFilter) ([]domain.Event, error)

	// Trending returns up to limit active future events ordered by the
	// trending flag, with organizer summaries embedded.
	Trending(ctx context.Context, limit int) ([]domain.Event, error)

	// GetByID returns the event with the given ID regardless of status,
	// or ErrEventNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)

	// ListByOrganizer returns all of an organizer's events, every status,
	// newest first.
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error)

	// Create inserts a new event and returns the stored record.
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)

	// Update applies the given column values to the event and returns the
	// updated record. Returns ErrEventNotFound when no row matched.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Event, error)
}

// RSVPStore reads and mutates attendance records.
type RSVPStore interface {
	// Exists reports whether the (event, user) pair already has an RSVP.
	Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error)

	// Count returns the number of RSVPs for an event.
	Count(ctx context.Context, eventID uuid.UUID) (int, error)

	// Create inserts an RSVP for the pair. Returns ErrDuplicateRSVP when
	// the backend's unique constraint rejects the insert.
	Create(ctx context.Context, eventID, userID uuid.UUID) (*domain.RSVP, error)

	// Delete removes the pair's RSVP.
	Delete(ctx context.Context, eventID, userID uuid.UUID) error

	// ListByUser returns the user's RSVPs, newest first, with the event and
	// its organizer summary embedded.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RSVP, error)
}

// GroupFilter narrows a group listing.
type GroupFilter struct {
	Category string
	Search   string
}

// GroupStore reads and mutates community group records.
type GroupStore interface {
	// List returns public groups matching the filter, newest first, with
	// creator summaries embedded.
	List(ctx context.Context, f GroupFilter) ([]domain.Group, error)

	// GetByID returns the group with the given ID regardless of visibility,
	// or ErrGroupNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)

	// Create inserts a new group and returns the stored record.
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)

	// Update applies the given column values to the group and returns the
	// updated record. Returns ErrGroupNotFound when no row matched.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Group, error)
}

// MembershipStore reads and mutates group membership records.
type MembershipStore interface {
	// Get returns the membership for the (group, user) pair, or
	// ErrMembershipNotFound.
	Get(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupMembership, error)

	// Create enrolls the user in the group with the given role. Returns
	// ErrDuplicateMembership when the backend's unique constraint rejects
	// the insert.
	Create(
		ctx context.Context,
		groupID, userID uuid.UUID,
		role domain.MembershipRole,
	) (*domain.GroupMembership, error)

	// Delete removes the pair's membership.
	Delete(ctx context.Context, groupID, userID uuid.UUID) error

	// CountMembers returns the number of members in the group.
	CountMembers(ctx context.Context, groupID uuid.UUID) (int, error)

	// CountAdmins returns the number of admin members in the group.
	CountAdmins(ctx context.Context, groupID uuid.UUID) (int, error)

	// ListMembers returns the group's memberships, oldest first, with member
	// profiles embedded.
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.GroupMembership, error)

	// ListByUser returns the user's memberships, newest first, with groups
	// and their creator summaries embedded.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.GroupMembership, error)
}

// MessagePage narrows a group chat history read.
type MessagePage struct {
	// Limit bounds the page size; callers clamp it to [1,100].
	Limit int

	// Before, when set, restricts the page to messages created before the
	// referenced message.
	Before *uuid.UUID
}

// MessageStore reads and mutates group chat messages.
type MessageStore interface {
	// List returns a page of the group's non-deleted messages, newest
	// first, with sender summaries embedded.
	List(ctx context.Context, groupID uuid.UUID, page MessagePage) ([]domain.Message, error)

	// Get returns the message with the given ID within the group, or
	// ErrMessageNotFound.
	Get(ctx context.Context, groupID, messageID uuid.UUID) (*domain.Message, error)

	// Create inserts a new message and returns the stored record.
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)

	// MarkDeleted sets the message's deleted flag. The row stays in place.
	MarkDeleted(ctx context.Context, messageID uuid.UUID) error
}
