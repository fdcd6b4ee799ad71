package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request statuses. A rejected or cancelled request is deleted, so
// only these two values are ever persisted.
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
)

// FriendRequest records one friend request between two users. At most one
// active request may exist per unordered pair, in either direction. Accepted
// requests are kept as a notification trail until the friendship is removed.
type FriendRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FriendRequestView is a FriendRequest with both endpoints populated.
type FriendRequestView struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    UserSummary        `json:"sender"`
	Recipient UserSummary        `json:"recipient"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// FriendRequestsPage is the payload of the requests listing: pending requests
// addressed to the user plus accepted requests the user sent, the latter
// serving as "X accepted your request" notifications.
type FriendRequestsPage struct {
	IncomingRequests []FriendRequestView `json:"incomingRequests"`
	AcceptedRequests []FriendRequestView `json:"acceptedRequests"`
}
