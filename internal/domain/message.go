package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength is the upper bound on message content length.
const MaxMessageLength = 2000

// Message is a chat message posted to a group. Deletion is logical: the
// IsDeleted flag is set and the row stays in place.
type Message struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`

	// Sender is the embedded profile summary of the posting member.
	Sender *ProfileSummary `json:"sender,omitempty"`
}
