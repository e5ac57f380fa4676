package api

import (
	"time"

	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

// SessionPayload is the token pair returned by signup, login, and refresh.
type SessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

func sessionPayload(s *supabase.Session) *SessionPayload {
	if s == nil {
		return nil
	}
	return &SessionPayload{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}
}

// EventView is an event enriched with per-caller attendance data for
// listings and detail reads.
type EventView struct {
	domain.Event
	RSVPCount     int        `json:"rsvp_count"`
	UserHasRSVPed bool       `json:"user_has_rsvped"`
	RSVPedAt      *time.Time `json:"rsvped_at,omitempty"`
}

// OrganizerEventView is an event in the organizer's own listing, which
// carries attendance counts but no per-caller flags.
type OrganizerEventView struct {
	domain.Event
	RSVPCount int `json:"rsvp_count"`
}

// eventRef is the reduced event shape echoed alongside a new RSVP.
type eventRef struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"datetime"`
}

// GroupView is a group enriched with membership data for the caller.
type GroupView struct {
	domain.Group
	MemberCount  int                    `json:"member_count"`
	UserIsMember bool                   `json:"user_is_member"`
	UserRole     *domain.MembershipRole `json:"user_role"`
}

// MyGroupView is a group in the caller's own listing.
type MyGroupView struct {
	domain.Group
	UserRole    domain.MembershipRole `json:"user_role"`
	JoinedAt    time.Time             `json:"joined_at"`
	MemberCount int                   `json:"member_count"`
}

// groupRef is the reduced group shape echoed alongside membership changes
// and member listings.
type groupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MemberView is one entry of a group's member listing.
type MemberView struct {
	MembershipID string                 `json:"membership_id"`
	Role         domain.MembershipRole  `json:"role"`
	JoinedAt     time.Time              `json:"joined_at"`
	User         *domain.ProfileSummary `json:"user"`
}

// MessageView is the chat message shape returned to clients. Deleted
// messages never reach this type.
type MessageView struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	CreatedAt time.Time              `json:"created_at"`
	Sender    *domain.ProfileSummary `json:"sender"`
}

func messageView(m *domain.Message) MessageView {
	return MessageView{
		ID:        m.ID.String(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Sender:    m.Sender,
	}
}
