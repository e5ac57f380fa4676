package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
	"github.com/eventsaga/eventsaga-api/internal/store"
	"github.com/eventsaga/eventsaga-api/internal/validation"
)

// GroupHandler handles community group discovery and membership.
type GroupHandler struct {
	groups      store.GroupStore
	memberships store.MembershipStore
}

// NewGroupHandler creates a new GroupHandler with the given dependencies.
func NewGroupHandler(groups store.GroupStore, memberships store.MembershipStore) *GroupHandler {
	return &GroupHandler{
		groups:      groups,
		memberships: memberships,
	}
}

// enrich builds the caller-facing view of a group: member count and the
// caller's membership state.
func (h *GroupHandler) enrich(
	ctx context.Context,
	group domain.Group,
	caller *domain.Profile,
) (GroupView, error) {
	count, err := h.memberships.CountMembers(ctx, group.ID)
	if err != nil {
		return GroupView{}, fmt.Errorf("counting members for group %s: %w", group.ID, err)
	}

	view := GroupView{Group: group, MemberCount: count}
	if caller != nil {
		membership, err := h.memberships.Get(ctx, group.ID, caller.ID)
		switch {
		case err == nil:
			view.UserIsMember = true
			role := membership.Role
			view.UserRole = &role
		case errors.Is(err, store.ErrMembershipNotFound):
			// Not a member; leave the zero values.
		default:
			return GroupView{}, fmt.Errorf("checking membership for group %s: %w", group.ID, err)
		}
	}
	return view, nil
}

// membershipOf returns the caller's membership in a group, or nil when the
// caller is anonymous or not a member.
func (h *GroupHandler) membershipOf(
	ctx context.Context,
	groupID uuid.UUID,
	caller *domain.Profile,
) (*domain.GroupMembership, error) {
	if caller == nil {
		return nil, nil
	}
	membership, err := h.memberships.Get(ctx, groupID, caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return membership, nil
}

// List handles GET /api/groups. Optional auth. Only public groups appear.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.GroupFilter{
		Category: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}

	groups, err := h.groups.List(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch groups", err)
		return
	}

	caller := optionalCaller(r)
	views := make([]GroupView, 0, len(groups))
	for _, group := range groups {
		view, err := h.enrich(r.Context(), group, caller)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch groups", err)
			return
		}
		views = append(views, view)
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{"groups": views})
}

// Get handles GET /api/groups/{group_id}. Optional auth. Private groups
// read as missing to everyone but their members.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathUUID(w, r, "group_id")
	if !ok {
		return
	}

	group, err := h.groups.GetByID(r.Context(), groupID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	caller := optionalCaller(r)
	if !group.IsPublic {
		membership, err := h.membershipOf(r.Context(), groupID, caller)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch group", err)
			return
		}
		if membership == nil {
			shared.RespondWithError(w, r, http.StatusNotFound, "Group not found")
			return
		}
	}

	view, err := h.enrich(r.Context(), *group, caller)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch group", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", view)
}

// Create handles POST /api/groups. Requires auth. The creator is enrolled
// as the group's first admin.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
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

	if fieldErrors := validation.RequiredFields(data, []string{"name", "description"}); len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	name, _ := stringField(data, "name")
	description, _ := stringField(data, "description")

	if fieldErrors := validation.GroupPayload(name, description); len(fieldErrors) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	group := &domain.Group{
		CreatorID:   caller.ID,
		Name:        name,
		Description: description,
		IsPublic:    true,
	}
	if isPublic, present := data["is_public"].(bool); present {
		group.IsPublic = isPublic
	}
	if category, present := stringField(data, "category"); present && category != "" {
		group.Category = strings.ToLower(category)
	}
	if avatarURL, present := stringField(data, "avatar_url"); present {
		group.AvatarURL = avatarURL
	}

	created, err := h.groups.Create(r.Context(), group)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create group", err)
		return
	}

	// Enroll the creator as admin. A duplicate here means a backend trigger
	// already did it.
	if _, err := h.memberships.Create(r.Context(), created.ID, caller.ID, domain.MembershipRoleAdmin); err != nil &&
		!errors.Is(err, store.ErrDuplicateMembership) {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create group", err)
		return
	}

	adminRole := domain.MembershipRoleAdmin
	shared.RespondWithSuccess(w, r, http.StatusCreated, "Group created successfully", GroupView{
		Group:        *created,
		MemberCount:  1,
		UserIsMember: true,
		UserRole:     &adminRole,
	})
}

// Update handles PUT /api/groups/{group_id}. Group admins only.
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.groups.GetByID(r.Context(), groupID); err != nil {
		HandleStoreError(w, r, err)
		return
	}

	membership, err := h.membershipOf(r.Context(), groupID, caller)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update group", err)
		return
	}
	if membership == nil || !membership.IsAdmin() {
		shared.RespondWithError(w, r, http.StatusForbidden, "Only group admins can update the group")
		return
	}

	fields := map[string]any{}
	if _, present := data["name"]; present {
		name, _ := stringField(data, "name")
		if len(name) < 3 {
			shared.RespondWithValidationErrors(w, r, map[string]string{"name": "Name must be at least 3 characters long"})
			return
		}
		if len(name) > 100 {
			shared.RespondWithValidationErrors(w, r, map[string]string{"name": "Name must not exceed 100 characters"})
			return
		}
		fields["name"] = name
	}
	if _, present := data["description"]; present {
		description, _ := stringField(data, "description")
		if len(description) < 10 {
			shared.RespondWithValidationErrors(w, r, map[string]string{"description": "Description must be at least 10 characters long"})
			return
		}
		if len(description) > 1000 {
			shared.RespondWithValidationErrors(w, r, map[string]string{"description": "Description must not exceed 1000 characters"})
			return
		}
		fields["description"] = description
	}
	if raw, present := data["category"]; present {
		if raw == nil {
			fields["category"] = nil
		} else {
			category, _ := stringField(data, "category")
			fields["category"] = strings.ToLower(category)
		}
	}
	if raw, present := data["avatar_url"]; present {
		if raw == nil {
			fields["avatar_url"] = nil
		} else {
			avatarURL, _ := stringField(data, "avatar_url")
			fields["avatar_url"] = avatarURL
		}
	}
	if isPublic, present := data["is_public"].(bool); present {
		fields["is_public"] = isPublic
	}

	if len(fields) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}

	updated, err := h.groups.Update(r.Context(), groupID, fields)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Group updated successfully", updated)
}

// Join handles POST /api/groups/{group_id}/join. Requires auth. Only
// public groups can be joined directly.
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "group_id")
	if !ok {
		return
	}

	group, err := h.groups.GetByID(r.Context(), groupID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}
	if !group.IsPublic {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Cannot join private group")
		return
	}

	existing, err := h.membershipOf(r.Context(), groupID, caller)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to join group", err)
		return
	}
	if existing != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "You are already a member of this group")
		return
	}

	membership, err := h.memberships.Create(r.Context(), groupID, caller.ID, domain.MembershipRoleMember)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateMembership) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "You are already a member of this group")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to join group", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, "Successfully joined group", map[string]any{
		"membership": membership,
		"group": groupRef{
			ID:   group.ID.String(),
			Name: group.Name,
		},
	})
}

// Leave handles DELETE /api/groups/{group_id}/leave. The sole admin of a
// group cannot leave it.
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "group_id")
	if !ok {
		return
	}

	membership, err := h.memberships.Get(r.Context(), groupID, caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "You are not a member of this group")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to leave group", err)
		return
	}

	if membership.IsAdmin() {
		adminCount, err := h.memberships.CountAdmins(r.Context(), groupID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to leave group", err)
			return
		}
		if adminCount == 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Cannot leave group: you are the only admin. Please assign another admin first or delete the group.")
			return
		}
	}

	if err := h.memberships.Delete(r.Context(), groupID, caller.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to leave group", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Successfully left group", nil)
}

// Members handles GET /api/groups/{group_id}/members. Requires auth; for
// private groups, membership as well.
func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "group_id")
	if !ok {
		return
	}

	group, err := h.groups.GetByID(r.Context(), groupID)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	if !group.IsPublic {
		membership, err := h.membershipOf(r.Context(), groupID, caller)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch group members", err)
			return
		}
		if membership == nil {
			shared.RespondWithError(w, r, http.StatusForbidden, "You must be a member to view group members")
			return
		}
	}

	memberships, err := h.memberships.ListMembers(r.Context(), groupID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch group members", err)
		return
	}

	members := make([]MemberView, 0, len(memberships))
	for _, m := range memberships {
		if m.User == nil {
			continue
		}
		members = append(members, MemberView{
			MembershipID: m.ID.String(),
			Role:         m.Role,
			JoinedAt:     m.JoinedAt,
			User:         m.User,
		})
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"group": groupRef{
			ID:   group.ID.String(),
			Name: group.Name,
		},
		"members": members,
		"total":   len(members),
	})
}

// MyGroups handles GET /api/groups/my-groups: the caller's memberships,
// newest first.
func (h *GroupHandler) MyGroups(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerProfile(w, r)
	if !ok {
		return
	}

	memberships, err := h.memberships.ListByUser(r.Context(), caller.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch user groups", err)
		return
	}

	views := make([]MyGroupView, 0, len(memberships))
	for _, m := range memberships {
		if m.Group == nil {
			continue
		}
		count, err := h.memberships.CountMembers(r.Context(), m.Group.ID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to fetch user groups", err)
			return
		}
		views = append(views, MyGroupView{
			Group:       *m.Group,
			UserRole:    m.Role,
			JoinedAt:    m.JoinedAt,
			MemberCount: count,
		})
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{"groups": views})
}
