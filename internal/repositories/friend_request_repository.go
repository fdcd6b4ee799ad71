package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendRequestRepository defines the interface for friend request data operations
type FriendRequestRepository interface {
	Create(ctx context.Context, req *models.FriendRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetActiveBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error)
	ListByRecipient(ctx context.Context, userID primitive.ObjectID, status string) ([]models.FriendRequest, error)
	ListBySender(ctx context.Context, userID primitive.ObjectID, status string) ([]models.FriendRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBetween(ctx context.Context, a, b primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// MongoFriendRequestRepository implements FriendRequestRepository for MongoDB
type MongoFriendRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoFriendRequestRepository creates a new MongoFriendRequestRepository
func NewMongoFriendRequestRepository(db *mongo.Database) *MongoFriendRequestRepository {
	return &MongoFriendRequestRepository{collection: db.Collection("friend_requests")}
}

// EnsureIndexes creates the endpoint indexes used by the pair and listing queries
func (r *MongoFriendRequestRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}

// Create inserts a new friend request
func (r *MongoFriendRequestRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	_, err := r.collection.InsertOne(ctx, req)
	return err
}

// GetByID retrieves a friend request by ID
func (r *MongoFriendRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &req, nil
}

// GetActiveBetween retrieves the request between a and b in either direction,
// whatever its status. At most one such record exists by construction.
func (r *MongoFriendRequestRepository) GetActiveBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}}
	var req models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("friend request between %s and %s: %w", a.Hex(), b.Hex(), apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &req, nil
}

// ListByRecipient retrieves requests addressed to userID with the given status
func (r *MongoFriendRequestRepository) ListByRecipient(ctx context.Context, userID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	return r.list(ctx, bson.M{"recipient": userID, "status": status})
}

// ListBySender retrieves requests sent by userID with the given status
func (r *MongoFriendRequestRepository) ListBySender(ctx context.Context, userID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	return r.list(ctx, bson.M{"sender": userID, "status": status})
}

func (r *MongoFriendRequestRepository) list(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reqs []models.FriendRequest
	if err = cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateStatus updates the status of a friend request
func (r *MongoFriendRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a friend request
func (r *MongoFriendRequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// DeleteBetween removes any request between a and b in either direction.
// Used to clear the accepted record when a friendship is removed; absence is
// not an error.
func (r *MongoFriendRequestRepository) DeleteBetween(ctx context.Context, a, b primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}})
	return err
}
