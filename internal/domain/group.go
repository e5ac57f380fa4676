package domain

import (
	"time"

	"github.com/google/uuid"
)

// MembershipRole is an account's role within a group.
type MembershipRole string

// Valid membership roles.
const (
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)

// Group represents a community group. The creating account is enrolled as
// an admin member on creation, and a group must retain at least one admin
// member at all times.
type Group struct {
	ID          uuid.UUID `json:"id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`

	// Creator is the embedded profile summary of the creating account,
	// populated on reads that join against profiles.
	Creator *ProfileSummary `json:"creator,omitempty"`
}

// GroupMembership is the (group, account) membership record.
// The pair is unique per the backend's constraint.
type GroupMembership struct {
	ID       uuid.UUID      `json:"id"`
	GroupID  uuid.UUID      `json:"group_id"`
	UserID   uuid.UUID      `json:"user_id"`
	Role     MembershipRole `json:"role"`
	JoinedAt time.Time      `json:"joined_at"`

	// User is the embedded member profile on member listings.
	User *ProfileSummary `json:"user,omitempty"`

	// Group is the embedded group on my-groups listings.
	Group *Group `json:"group,omitempty"`
}

// IsAdmin reports whether the membership carries the admin role.
func (m *GroupMembership) IsAdmin() bool {
	return m.Role == MembershipRoleAdmin
}
