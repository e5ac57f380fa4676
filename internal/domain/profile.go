// Package domain defines the core business entities and errors.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the platform role of an account.
type Role string

// Valid account roles.
const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
)

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r Role) bool {
	return r == RoleAttendee || r == RoleOrganizer
}

// Profile is the account record mirrored from the backend's profiles table.
// Identity (credentials, sessions) is owned by the backend's auth service;
// this record carries the public attributes and the platform role.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileSummary is the reduced profile shape embedded in events, groups,
// and messages when showing who organized, created, or sent something.
type ProfileSummary struct {
	ID        uuid.UUID `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}
