package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is the 1:1 thread record for an unordered pair of users.
// PairKey is the canonical key for the pair and carries a unique index, which
// is what guarantees at most one conversation per pair under concurrent
// creation.
type Conversation struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants    []primitive.ObjectID `bson:"participants" json:"participants"`
	PairKey         string               `bson:"pairKey" json:"-"`
	LastMessage     string               `bson:"lastMessage" json:"lastMessage"`
	LastMessageTime time.Time            `bson:"lastMessageTime" json:"lastMessageTime"`
	UnreadCount     map[string]int       `bson:"unreadCount" json:"unreadCount"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ConversationPairKey returns the canonical key for an unordered user pair.
// Both orderings of the same pair produce the same key.
func ConversationPairKey(a, b primitive.ObjectID) string {
	ha, hb := a.Hex(), b.Hex()
	if strings.Compare(ha, hb) > 0 {
		ha, hb = hb, ha
	}
	return ha + ":" + hb
}

// ConversationView is a Conversation with participants populated.
type ConversationView struct {
	ID              primitive.ObjectID `json:"id"`
	Participants    []UserSummary      `json:"participants"`
	LastMessage     string             `json:"lastMessage"`
	LastMessageTime time.Time          `json:"lastMessageTime"`
	UnreadCount     map[string]int     `json:"unreadCount"`
	CreatedAt       time.Time          `json:"createdAt"`
}
