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

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetRecommendedUsers(ctx context.Context, forUser *models.User, limit int64) ([]models.User, error)
	SearchUsers(ctx context.Context, query string, exclude primitive.ObjectID) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// EnsureIndexes creates the unique email index and the friends index
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "friends", Value: 1}},
		},
	})
	return err
}

// CreateUser creates a new user
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves all users whose ID is in ids
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetRecommendedUsers retrieves onboarded users who are neither the given
// user nor already their friends
func (r *MongoUserRepository) GetRecommendedUsers(ctx context.Context, forUser *models.User, limit int64) ([]models.User, error) {
	exclude := append([]primitive.ObjectID{forUser.ID}, forUser.Friends...)
	filter := bson.M{
		"_id":         bson.M{"$nin": exclude},
		"isOnboarded": true,
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsers matches users by case-insensitive substring of the full name
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, exclude primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{
		"_id":      bson.M{"$ne": exclude},
		"fullName": bson.M{"$regex": primitive.Regex{Pattern: regexEscape(query), Options: "i"}},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser persists the user's mutable profile fields
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"fullName":         user.FullName,
			"password":         user.Password,
			"bio":              user.Bio,
			"profilePic":       user.ProfilePic,
			"nativeLanguage":   user.NativeLanguage,
			"learningLanguage": user.LearningLanguage,
			"location":         user.Location,
			"isOnboarded":      user.IsOnboarded,
			"updatedAt":        user.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// AddFriend adds friendID to userID's friend set ($addToSet, idempotent)
func (r *MongoUserRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"friends": friendID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// RemoveFriend removes friendID from userID's friend set ($pull, idempotent)
func (r *MongoUserRepository) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"friends": friendID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// regexEscape neutralizes regex metacharacters so search input is treated as
// a literal substring.
func regexEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
