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

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error)
	AddMember(ctx context.Context, groupID, memberID primitive.ObjectID) error
	RemoveMember(ctx context.Context, groupID, memberID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// MongoGroupRepository implements GroupRepository for MongoDB
type MongoGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoGroupRepository creates a new MongoGroupRepository
func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	return &MongoGroupRepository{collection: db.Collection("groups")}
}

// EnsureIndexes creates the admin, member-containment and activity indexes
func (r *MongoGroupRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "admin", Value: 1}}},
		{Keys: bson.D{{Key: "members", Value: 1}}},
		{Keys: bson.D{{Key: "lastMessageTime", Value: -1}}},
	})
	return err
}

// Create inserts a new group
func (r *MongoGroupRepository) Create(ctx context.Context, group *models.Group) error {
	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt
	if group.LastMessageTime.IsZero() {
		group.LastMessageTime = group.CreatedAt
	}
	_, err := r.collection.InsertOne(ctx, group)
	return err
}

// GetByID retrieves a group by ID
func (r *MongoGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("group %s: %w", id.Hex(), apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &group, nil
}

// ListForUser retrieves groups where userID is the admin or a member, most
// recently active first
func (r *MongoGroupRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"admin": userID},
		bson.M{"members": userID},
	}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "lastMessageTime", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember adds memberID to the group's member set ($addToSet so a concurrent
// add or remove of another member is never lost to a list replacement)
func (r *MongoGroupRepository) AddMember(ctx context.Context, groupID, memberID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$addToSet": bson.M{"members": memberID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("group %s: %w", groupID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// RemoveMember removes memberID from the group's member set ($pull)
func (r *MongoGroupRepository) RemoveMember(ctx context.Context, groupID, memberID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$pull": bson.M{"members": memberID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("group %s: %w", groupID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a group
func (r *MongoGroupRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("group %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return nil
}
