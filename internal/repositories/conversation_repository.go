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

// ConversationRepository defines the interface for conversation data operations
type ConversationRepository interface {
	GetByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error)
	Insert(ctx context.Context, conv *models.Conversation) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoConversationRepository implements ConversationRepository for MongoDB
type MongoConversationRepository struct {
	collection *mongo.Collection
}

// NewMongoConversationRepository creates a new MongoConversationRepository
func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{collection: db.Collection("conversations")}
}

// EnsureIndexes creates the unique pair-key index that enforces at most one
// conversation per unordered participant pair, plus the listing indexes
func (r *MongoConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "participants", Value: 1}}},
		{Keys: bson.D{{Key: "lastMessageTime", Value: -1}}},
	})
	return err
}

// GetByPairKey retrieves the conversation for a canonical pair key
func (r *MongoConversationRepository) GetByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.collection.FindOne(ctx, bson.M{"pairKey": pairKey}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("conversation %s: %w", pairKey, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &conv, nil
}

// Insert creates the conversation. If a concurrent caller won the race on the
// unique pair-key index, the existing document is fetched and returned
// instead of an error.
func (r *MongoConversationRepository) Insert(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	conv.ID = primitive.NewObjectID()
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	if conv.LastMessageTime.IsZero() {
		conv.LastMessageTime = conv.CreatedAt
	}
	if conv.UnreadCount == nil {
		conv.UnreadCount = map[string]int{}
	}
	_, err := r.collection.InsertOne(ctx, conv)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.GetByPairKey(ctx, conv.PairKey)
		}
		return nil, err
	}
	return conv, nil
}

// ListForUser retrieves all conversations containing userID, most recently
// active first
func (r *MongoConversationRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "lastMessageTime", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err = cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}
