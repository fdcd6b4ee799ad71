package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupService owns group entities and their membership rules: the admin is
// always a member, only the admin adds members or deletes the group, and a
// member may remove only themself.
type GroupService struct {
	groups repositories.GroupRepository
	users  repositories.UserRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groups repositories.GroupRepository, users repositories.UserRepository) *GroupService {
	return &GroupService{groups: groups, users: users}
}

// Create makes a new group with admin as its admin. The stored member set is
// the union of memberIDs and the admin, deduplicated with insertion order
// preserved for display.
func (s *GroupService) Create(ctx context.Context, admin primitive.ObjectID, name, description string, memberIDs []primitive.ObjectID) (*models.GroupView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("group name is required: %w", apperrors.ErrValidation)
	}
	if len(name) > models.MaxGroupNameLength {
		return nil, fmt.Errorf("group name must be at most %d characters: %w", models.MaxGroupNameLength, apperrors.ErrValidation)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("at least one member is required: %w", apperrors.ErrValidation)
	}

	members := dedupIDs(append(memberIDs, admin))
	resolved, err := s.users.GetUsersByIDs(ctx, members)
	if err != nil {
		return nil, err
	}
	if len(resolved) != len(members) {
		return nil, fmt.Errorf("some members: %w", apperrors.ErrNotFound)
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		GroupPic:    defaultGroupPic(name),
		Admin:       admin,
		Members:     members,
		IsActive:    true,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return s.populate(ctx, group)
}

// AddMember adds newMemberID to the group; only the admin may do so.
func (s *GroupService) AddMember(ctx context.Context, groupID, actingUser, newMemberID primitive.ObjectID) (*models.GroupView, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Admin != actingUser {
		return nil, fmt.Errorf("only the admin may add members: %w", apperrors.ErrForbidden)
	}
	if _, err := s.users.GetUserByID(ctx, newMemberID); err != nil {
		return nil, err
	}
	if group.HasMember(newMemberID) {
		return nil, apperrors.ErrDuplicateMember
	}

	if err := s.groups.AddMember(ctx, groupID, newMemberID); err != nil {
		return nil, err
	}
	return s.refresh(ctx, groupID)
}

// RemoveMember removes targetID from the group. The admin may remove any
// other member; a member may remove themself. The admin is never removable,
// their exit path is deleting the group.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actingUser, targetID primitive.ObjectID) (*models.GroupView, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if targetID == group.Admin {
		return nil, fmt.Errorf("the admin cannot be removed from the group: %w", apperrors.ErrForbidden)
	}
	if group.Admin != actingUser && actingUser != targetID {
		return nil, fmt.Errorf("not authorized to remove this member: %w", apperrors.ErrForbidden)
	}
	if !group.HasMember(targetID) {
		return nil, fmt.Errorf("member %s: %w", targetID.Hex(), apperrors.ErrNotFound)
	}

	if err := s.groups.RemoveMember(ctx, groupID, targetID); err != nil {
		return nil, err
	}
	return s.refresh(ctx, groupID)
}

// Delete removes the group; only the admin may do so.
func (s *GroupService) Delete(ctx context.Context, groupID, actingUser primitive.ObjectID) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.Admin != actingUser {
		return fmt.Errorf("only the admin may delete the group: %w", apperrors.ErrForbidden)
	}
	return s.groups.Delete(ctx, groupID)
}

// ListForUser returns the populated groups where userID is admin or member,
// most recently active first.
func (s *GroupService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.GroupView, error) {
	groups, err := s.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(groups)*4)
	for i := range groups {
		ids = append(ids, groups[i].Admin)
		ids = append(ids, groups[i].Members...)
	}
	byID, err := summariesByID(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.GroupView, 0, len(groups))
	for i := range groups {
		views = append(views, groupViewOf(&groups[i], byID))
	}
	return views, nil
}

func (s *GroupService) refresh(ctx context.Context, groupID primitive.ObjectID) (*models.GroupView, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, group)
}

func (s *GroupService) populate(ctx context.Context, group *models.Group) (*models.GroupView, error) {
	byID, err := summariesByID(ctx, s.users, append([]primitive.ObjectID{group.Admin}, group.Members...))
	if err != nil {
		return nil, err
	}
	view := groupViewOf(group, byID)
	return &view, nil
}

func groupViewOf(group *models.Group, byID map[primitive.ObjectID]models.UserSummary) models.GroupView {
	members := make([]models.UserSummary, 0, len(group.Members))
	for _, id := range group.Members {
		if summary, ok := byID[id]; ok {
			members = append(members, summary)
		}
	}
	return models.GroupView{
		ID:              group.ID,
		Name:            group.Name,
		Description:     group.Description,
		GroupPic:        group.GroupPic,
		Admin:           byID[group.Admin],
		Members:         members,
		LastMessage:     group.LastMessage,
		LastMessageTime: group.LastMessageTime,
		IsActive:        group.IsActive,
		CreatedAt:       group.CreatedAt,
	}
}

func defaultGroupPic(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
