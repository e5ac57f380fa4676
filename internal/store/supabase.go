package store

import (
	"errors"

	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

// SupabaseStores bundles the Supabase-backed store implementations.
//
// Reads go through the caller-scoped (anon key) client; writes go through
// the elevated (service-role key) client because row-level security policies
// in the backend only admit writes from the service role. Authorization is
// enforced in the handlers before any write is issued.
type SupabaseStores struct {
	Profiles    ProfileStore
	Events      EventStore
	RSVPs       RSVPStore
	Groups      GroupStore
	Memberships MembershipStore
	Messages    MessageStore
}

// NewSupabaseStores constructs all stores over the given clients.
func NewSupabaseStores(read, write *supabase.Client) *SupabaseStores {
	return &SupabaseStores{
		Profiles:    &supabaseProfileStore{read: read, write: write},
		Events:      &supabaseEventStore{read: read, write: write},
		RSVPs:       &supabaseRSVPStore{read: read, write: write},
		Groups:      &supabaseGroupStore{read: read, write: write},
		Memberships: &supabaseMembershipStore{read: read, write: write},
		Messages:    &supabaseMessageStore{read: read, write: write},
	}
}

// isNoRows reports whether err is the backend's empty-result error.
func isNoRows(err error) bool {
	return errors.Is(err, supabase.ErrNoRows)
}

// isUniqueViolation reports whether err is the backend's unique constraint
// rejection.
func isUniqueViolation(err error) bool {
	var apiErr *supabase.APIError
	return errors.As(err, &apiErr) && apiErr.IsUniqueViolation()
}
