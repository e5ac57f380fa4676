package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/store"
	"github.com/eventsaga/eventsaga-api/internal/validation"
)

// defaultMessageLimit is the page size when the client sends none.
const defaultMessageLimit = 50

// maxMessageLimit caps the page size.
const maxMessageLimit = 100

// MessageHandler handles group chat. Every route requires auth and group
// membership, regardless of the group's visibility.
type MessageHandler struct {
	messages    store.MessageStore
	memberships store.MembershipStore
}

// NewMessageHandler creates a new MessageHandler with the given dependencies.
func NewMessageHandler(messages store.MessageStore, memberships store.MembershipStore) *MessageHandler {
	return &MessageHandler{
		messages:    messages,
		memberships: memberships,
	}
}

// requireMembership loads the caller's membership, writing the 403 when
// there is none.
func (h *MessageHandler) requireMembership(
	w http.ResponseWriter,
	r *http.Request,
	groupID uuid.UUID,
	caller *domain.Profile,
	action string,
) (*domain.GroupMembership, bool) {
	membership, err := h.memberships.Get(r.Context(), groupID, caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			shared.RespondWithError(w, r, http.StatusForbidden,
				fmt.Sprintf("You must be a member of this group to %s", action))
			return nil, false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch messages", err)
		return nil, false
	}
	return membership, true
}

// List handles GET /api/groups/{group_id}/messages. Pages are read newest
// first from storage and returned oldest first.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "group_id")
	if !ok {
		return
	}

	if _, ok := h.requireMembership(w, r, groupID, caller, "view messages"); !ok {
		return
	}

	limit := defaultMessageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	page := store.MessagePage{Limit: limit}
	if raw := r.URL.Query().Get("before"); raw != "" {
		// An unparseable cursor is ignored rather than rejected.
		if err := validation.UUID(raw); err == nil {
			if beforeID, err := uuid.Parse(raw); err == nil {
				page.Before = &beforeID
			}
		}
	}

	messages, err := h.messages.List(r.Context(), groupID, page)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch messages", err)
		return
	}

	// Reverse into chronological order for display.
	views := make([]MessageView, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		views = append(views, messageView(&m))
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"messages": views,
		"count":    len(views),
		"has_more": len(views) == limit,
	})
}

// Send handles POST /api/groups/{group_id}/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "group_id")
	if !ok {
		return
	}

	data, err := shared.DecodeJSONMap(r)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fieldErrors := validation.RequiredFields(data, []string{"content"}); len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	content, _ := stringField(data, "content")
	if content == "" {
		shared.RespondWithValidationErrors(w, r, map[string]string{"content": "Message cannot be empty"})
		return
	}
	if len(content) > domain.MaxMessageLength {
		shared.RespondWithValidationErrors(w, r, map[string]string{
			"content": fmt.Sprintf("Message must not exceed %d characters", domain.MaxMessageLength),
		})
		return
	}

	if _, ok := h.requireMembership(w, r, groupID, caller, "send messages"); !ok {
		return
	}

	created, err := h.messages.Create(r.Context(), &domain.Message{
		GroupID: groupID,
		UserID:  caller.ID,
		Content: content,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	if created.Sender == nil {
		created.Sender = &domain.ProfileSummary{
			ID:        caller.ID,
			Name:      caller.Name,
			AvatarURL: caller.AvatarURL,
		}
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, "Message sent successfully", messageView(created))
}

// Delete handles DELETE /api/groups/{group_id}/messages/{message_id}. The
// sender or a group admin may delete; deletion is logical.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "group_id")
	if !ok {
		return
	}
	messageID, ok := pathUUID(w, r, "message_id")
	if !ok {
		return
	}

	message, err := h.messages.Get(r.Context(), groupID, messageID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	isSender := message.UserID == caller.ID

	isAdmin := false
	membership, err := h.memberships.Get(r.Context(), groupID, caller.ID)
	if err == nil {
		isAdmin = membership.IsAdmin()
	} else if !errors.Is(err, store.ErrMembershipNotFound) {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete message", err)
		return
	}

	if !isSender && !isAdmin {
		shared.RespondWithError(w, r, http.StatusForbidden,
			"You can only delete your own messages or if you are a group admin")
		return
	}

	if err := h.messages.MarkDeleted(r.Context(), messageID); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete message", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Message deleted successfully", nil)
}
