package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event. Events are never
// physically deleted; cancellation is a status transition.
type EventStatus string

// Valid event statuses.
const (
	EventStatusActive    EventStatus = "active"
	EventStatusCanceled  EventStatus = "canceled"
	EventStatusCompleted EventStatus = "completed"
)

// ValidEventStatus reports whether s is a known event status.
func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventStatusActive, EventStatusCanceled, EventStatusCompleted:
		return true
	}
	return false
}

// EventCategories is the fixed set of accepted event categories.
var EventCategories = []string{
	"music", "tech", "sports", "food", "arts",
	"business", "workshop", "networking", "entertainment", "other",
}

// ValidEventCategory reports whether c is a known event category.
func ValidEventCategory(c string) bool {
	for _, cat := range EventCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// Event represents a listed event owned by an organizer account.
type Event struct {
	ID          uuid.UUID   `json:"id"`
	OrganizerID uuid.UUID   `json:"organizer_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartsAt    time.Time   `json:"datetime"`
	EndsAt      *time.Time  `json:"end_datetime,omitempty"`
	Location    string      `json:"location"`
	City        string      `json:"city"`
	Address     string      `json:"address,omitempty"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url,omitempty"`
	Capacity    *int        `json:"capacity,omitempty"`
	Status      EventStatus `json:"status"`
	IsTrending  bool        `json:"is_trending"`
	CreatedAt   time.Time   `json:"created_at"`

	// Organizer is the embedded profile summary of the owning organizer,
	// populated on reads that join against profiles.
	Organizer *ProfileSummary `json:"organizer,omitempty"`
}

// AtCapacity reports whether the event has a capacity limit and the given
// RSVP count has reached it.
func (e *Event) AtCapacity(rsvpCount int) bool {
	return e.Capacity != nil && rsvpCount >= *e.Capacity
}
