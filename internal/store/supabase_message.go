package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/platform/supabase"
)

const (
	messagesTable = "messages"

	// messageSenderEmbed pulls the sending member's summary through the
	// messages -> profiles foreign key.
	messageSenderEmbed = "profiles!messages_user_id_fkey(id,name,avatar_url)"
)

type supabaseMessageStore struct {
	read  *supabase.Client
	write *supabase.Client
}

// messageRow is a messages row with the PostgREST-embedded sender profile.
type messageRow struct {
	domain.Message
	Profiles *domain.ProfileSummary `json:"profiles"`
}

func (r messageRow) toDomain() domain.Message {
	message := r.Message
	message.Sender = r.Profiles
	return message
}

func (s *supabaseMessageStore) List(
	ctx context.Context,
	groupID uuid.UUID,
	page MessagePage,
) ([]domain.Message, error) {
	query := url.Values{
		"select":     {"*," + messageSenderEmbed},
		"group_id":   {"eq." + groupID.String()},
		"is_deleted": {"eq.false"},
		"order":      {"created_at.desc"},
		"limit":      {strconv.Itoa(page.Limit)},
	}

	// The before cursor is a message ID; page on its creation time.
	if page.Before != nil {
		before, err := s.createdAt(ctx, *page.Before)
		if err == nil {
			query.Set("created_at", "lt."+before.UTC().Format(time.RFC3339Nano))
		} else if err != ErrMessageNotFound {
			return nil, err
		}
	}

	var rows []messageRow
	if err := s.read.Select(ctx, messagesTable, query.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	messages := make([]domain.Message, len(rows))
	for i, row := range rows {
		messages[i] = row.toDomain()
	}
	return messages, nil
}

func (s *supabaseMessageStore) Get(
	ctx context.Context,
	groupID, messageID uuid.UUID,
) (*domain.Message, error) {
	query := url.Values{
		"select":   {"*"},
		"id":       {"eq." + messageID.String()},
		"group_id": {"eq." + groupID.String()},
	}

	var message domain.Message
	err := s.read.SelectOne(ctx, messagesTable, query.Encode(), &message)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("fetching message: %w", err)
	}
	return &message, nil
}

func (s *supabaseMessageStore) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	payload := map[string]any{
		"group_id": message.GroupID.String(),
		"user_id":  message.UserID.String(),
		"content":  message.Content,
	}

	var created domain.Message
	if err := s.write.Insert(ctx, messagesTable, payload, &created); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	return &created, nil
}

func (s *supabaseMessageStore) MarkDeleted(ctx context.Context, messageID uuid.UUID) error {
	query := url.Values{"id": {"eq." + messageID.String()}}
	payload := map[string]any{"is_deleted": true}

	if err := s.write.Update(ctx, messagesTable, query.Encode(), payload, nil); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	return nil
}

// createdAt resolves a message ID to its creation time for cursor paging.
func (s *supabaseMessageStore) createdAt(ctx context.Context, messageID uuid.UUID) (time.Time, error) {
	query := url.Values{
		"select": {"created_at"},
		"id":     {"eq." + messageID.String()},
	}

	var row struct {
		CreatedAt time.Time `json:"created_at"`
	}
	err := s.read.SelectOne(ctx, messagesTable, query.Encode(), &row)
	if err != nil {
		if isNoRows(err) {
			return time.Time{}, ErrMessageNotFound
		}
		return time.Time{}, fmt.Errorf("resolving message cursor: %w", err)
	}
	return row.CreatedAt, nil
}
