package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxGroupNameLength bounds Group.Name.
const MaxGroupNameLength = 50

// Group is an admin-owned chat group. Members always contains the admin and
// has set semantics: every mutation goes through $addToSet/$pull, never a
// full-list replacement.
type Group struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name              string               `bson:"name" json:"name"`
	Description       string               `bson:"description" json:"description"`
	GroupPic          string               `bson:"groupPic" json:"groupPic"`
	Admin             primitive.ObjectID   `bson:"admin" json:"admin"`
	Members           []primitive.ObjectID `bson:"members" json:"members"`
	LastMessage       string               `bson:"lastMessage" json:"lastMessage"`
	LastMessageSender primitive.ObjectID   `bson:"lastMessageSender,omitempty" json:"lastMessageSender,omitempty"`
	LastMessageTime   time.Time            `bson:"lastMessageTime" json:"lastMessageTime"`
	IsActive          bool                 `bson:"isActive" json:"isActive"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether id is in the group's member set.
func (g *Group) HasMember(id primitive.ObjectID) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}

// GroupView is a Group with admin and members populated.
type GroupView struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	GroupPic        string             `json:"groupPic"`
	Admin           UserSummary        `json:"admin"`
	Members         []UserSummary      `json:"members"`
	LastMessage     string             `json:"lastMessage"`
	LastMessageTime time.Time          `json:"lastMessageTime"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// CreateGroupRequest defines the request body for group creation
type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required,max=50"`
	Description string   `json:"description"`
	Members     []string `json:"members" validate:"required,min=1"`
}

// AddGroupMemberRequest defines the request body for adding a group member
type AddGroupMemberRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}
