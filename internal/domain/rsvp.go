package domain

import (
	"time"

	"github.com/google/uuid"
)

// RSVP is the (event, attendee) attendance record. The pair is unique per
// the backend's constraint; the record itself carries no payload.
type RSVP struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Event is the embedded event on my-rsvps listings.
	Event *Event `json:"event,omitempty"`
}
