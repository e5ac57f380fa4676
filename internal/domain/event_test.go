package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtCapacity(t *testing.T) {
	t.Parallel()

	ten := 10

	tests := []struct {
		name     string
		capacity *int
		count    int
		want     bool
	}{
		{name: "unlimited", capacity: nil, count: 1000, want: false},
		{name: "under", capacity: &ten, count: 9, want: false},
		{name: "exact", capacity: &ten, count: 10, want: true},
		{name: "over", capacity: &ten, count: 11, want: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			event := Event{Capacity: tc.capacity}
			assert.Equal(t, tc.want, event.AtCapacity(tc.count))
		})
	}
}

func TestValidEventCategory(t *testing.T) {
	t.Parallel()

	for _, category := range EventCategories {
		assert.True(t, ValidEventCategory(category), category)
	}
	assert.False(t, ValidEventCategory("knitting"))
	assert.False(t, ValidEventCategory(""))
	// Categories are stored lowercase; the check is case-sensitive.
	assert.False(t, ValidEventCategory("Music"))
}

func TestValidEventStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidEventStatus(EventStatusActive))
	assert.True(t, ValidEventStatus(EventStatusCanceled))
	assert.True(t, ValidEventStatus(EventStatusCompleted))
	assert.False(t, ValidEventStatus("archived"))
}

func TestValidRole(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidRole(RoleAttendee))
	assert.True(t, ValidRole(RoleOrganizer))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}
