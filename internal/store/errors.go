package store

import "errors"

// Sentinel errors returned by store implementations. The API layer maps
// these to HTTP status codes without exposing backend detail.
var (
	// ErrProfileNotFound is returned when no profile matches the lookup.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEventNotFound is returned when no event matches the lookup.
	ErrEventNotFound = errors.New("event not found")

	// ErrGroupNotFound is returned when no group matches the lookup.
	ErrGroupNotFound = errors.New("group not found")

	// ErrMembershipNotFound is returned when the account holds no
	// membership in the group.
	ErrMembershipNotFound = errors.New("group membership not found")

	// ErrMessageNotFound is returned when no message matches the lookup.
	ErrMessageNotFound = errors.New("message not found")

	// ErrRSVPNotFound is returned when the account holds no RSVP for the
	// event.
	ErrRSVPNotFound = errors.New("rsvp not found")

	// ErrDuplicateRSVP is returned when the backend's unique constraint on
	// (event, user) rejects an RSVP insert.
	ErrDuplicateRSVP = errors.New("rsvp already exists")

	// ErrDuplicateMembership is returned when the backend's unique
	// constraint on (group, user) rejects a membership insert.
	ErrDuplicateMembership = errors.New("group membership already exists")
)
