// Package mocks provides hand-written test doubles for the store and auth
// interfaces. Each mock exposes function fields; unset fields panic so a
// test exercising an unexpected call fails loudly.
package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/store"
)

// MockProfileStore implements store.ProfileStore.
type MockProfileStore struct {
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	UpdateFn  func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Profile, error)
}

func (m *MockProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *MockProfileStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) (*domain.Profile, error) {
	return m.UpdateFn(ctx, id, fields)
}

// MockEventStore implements store.EventStore.
type MockEventStore struct {
	ListFn            func(ctx context.Context, f store.EventFilter) ([]domain.Event, error)
	TrendingFn        func(ctx context.Context, limit int) ([]domain.Event, error)
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListByOrganizerFn func(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error)
	CreateFn          func(ctx context.Context, event *domain.Event) (*domain.Event, error)
	UpdateFn          func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Event, error)
}

func (m *MockEventStore) List(ctx context.Context, f store.EventFilter) ([]domain.Event, error) {
	return m.ListFn(ctx, f)
}

func (m *MockEventStore) Trending(ctx context.Context, limit int) ([]domain.Event, error) {
	return m.TrendingFn(ctx, limit)
}

func (m *MockEventStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *MockEventStore) ListByOrganizer(
	ctx context.Context,
	organizerID uuid.UUID,
) ([]domain.Event, error) {
	return m.ListByOrganizerFn(ctx, organizerID)
}

func (m *MockEventStore) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	return m.CreateFn(ctx, event)
}

func (m *MockEventStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) (*domain.Event, error) {
	return m.UpdateFn(ctx, id, fields)
}

// MockRSVPStore implements store.RSVPStore.
type MockRSVPStore struct {
	ExistsFn     func(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CountFn      func(ctx context.Context, eventID uuid.UUID) (int, error)
	CreateFn     func(ctx context.Context, eventID, userID uuid.UUID) (*domain.RSVP, error)
	DeleteFn     func(ctx context.Context, eventID, userID uuid.UUID) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.RSVP, error)
}

func (m *MockRSVPStore) Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	return m.ExistsFn(ctx, eventID, userID)
}

func (m *MockRSVPStore) Count(ctx context.Context, eventID uuid.UUID) (int, error) {
	return m.CountFn(ctx, eventID)
}

func (m *MockRSVPStore) Create(ctx context.Context, eventID, userID uuid.UUID) (*domain.RSVP, error) {
	return m.CreateFn(ctx, eventID, userID)
}

func (m *MockRSVPStore) Delete(ctx context.Context, eventID, userID uuid.UUID) error {
	return m.DeleteFn(ctx, eventID, userID)
}

func (m *MockRSVPStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RSVP, error) {
	return m.ListByUserFn(ctx, userID)
}

// MockGroupStore implements store.GroupStore.
type MockGroupStore struct {
	ListFn    func(ctx context.Context, f store.GroupFilter) ([]domain.Group, error)
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	CreateFn  func(ctx context.Context, group *domain.Group) (*domain.Group, error)
	UpdateFn  func(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Group, error)
}

func (m *MockGroupStore) List(ctx context.Context, f store.GroupFilter) ([]domain.Group, error) {
	return m.ListFn(ctx, f)
}

func (m *MockGroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *MockGroupStore) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	return m.CreateFn(ctx, group)
}

func (m *MockGroupStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) (*domain.Group, error) {
	return m.UpdateFn(ctx, id, fields)
}

// MockMembershipStore implements store.MembershipStore.
type MockMembershipStore struct {
	GetFn          func(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupMembership, error)
	CreateFn       func(ctx context.Context, groupID, userID uuid.UUID, role domain.MembershipRole) (*domain.GroupMembership, error)
	DeleteFn       func(ctx context.Context, groupID, userID uuid.UUID) error
	CountMembersFn func(ctx context.Context, groupID uuid.UUID) (int, error)
	CountAdminsFn  func(ctx context.Context, groupID uuid.UUID) (int, error)
	ListMembersFn  func(ctx context.Context, groupID uuid.UUID) ([]domain.GroupMembership, error)
	ListByUserFn   func(ctx context.Context, userID uuid.UUID) ([]domain.GroupMembership, error)
}

func (m *MockMembershipStore) Get(
	ctx context.Context,
	groupID, userID uuid.UUID,
) (*domain.GroupMembership, error) {
	return m.GetFn(ctx, groupID, userID)
}

func (m *MockMembershipStore) Create(
	ctx context.Context,
	groupID, userID uuid.UUID,
	role domain.MembershipRole,
) (*domain.GroupMembership, error) {
	return m.CreateFn(ctx, groupID, userID, role)
}

func (m *MockMembershipStore) Delete(ctx context.Context, groupID, userID uuid.UUID) error {
	return m.DeleteFn(ctx, groupID, userID)
}

func (m *MockMembershipStore) CountMembers(ctx context.Context, groupID uuid.UUID) (int, error) {
	return m.CountMembersFn(ctx, groupID)
}

func (m *MockMembershipStore) CountAdmins(ctx context.Context, groupID uuid.UUID) (int, error) {
	return m.CountAdminsFn(ctx, groupID)
}

func (m *MockMembershipStore) ListMembers(
	ctx context.Context,
	groupID uuid.UUID,
) ([]domain.GroupMembership, error) {
	return m.ListMembersFn(ctx, groupID)
}

func (m *MockMembershipStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.GroupMembership, error) {
	return m.ListByUserFn(ctx, userID)
}

// MockMessageStore implements store.MessageStore.
type MockMessageStore struct {
	ListFn        func(ctx context.Context, groupID uuid.UUID, page store.MessagePage) ([]domain.Message, error)
	GetFn         func(ctx context.Context, groupID, messageID uuid.UUID) (*domain.Message, error)
	CreateFn      func(ctx context.Context, message *domain.Message) (*domain.Message, error)
	MarkDeletedFn func(ctx context.Context, messageID uuid.UUID) error
}

func (m *MockMessageStore) List(
	ctx context.Context,
	groupID uuid.UUID,
	page store.MessagePage,
) ([]domain.Message, error) {
	return m.ListFn(ctx, groupID, page)
}

func (m *MockMessageStore) Get(
	ctx context.Context,
	groupID, messageID uuid.UUID,
) (*domain.Message, error) {
	return m.GetFn(ctx, groupID, messageID)
}

func (m *MockMessageStore) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	return m.CreateFn(ctx, message)
}

func (m *MockMessageStore) MarkDeleted(ctx context.Context, messageID uuid.UUID) error {
	return m.MarkDeletedFn(ctx, messageID)
}
