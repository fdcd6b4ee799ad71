package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered learner. Password holds the bcrypt hash and is never
// serialized. Friends is maintained exclusively through the friendship
// service so that it stays symmetric with the other side.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName         string               `bson:"fullName" json:"fullName"`
	Email            string               `bson:"email" json:"email"`
	Password         string               `bson:"password" json:"-"`
	Bio              string               `bson:"bio" json:"bio"`
	ProfilePic       string               `bson:"profilePic" json:"profilePic"`
	NativeLanguage   string               `bson:"nativeLanguage" json:"nativeLanguage"`
	LearningLanguage string               `bson:"learningLanguage" json:"learningLanguage"`
	Location         string               `bson:"location" json:"location"`
	IsOnboarded      bool                 `bson:"isOnboarded" json:"isOnboarded"`
	Friends          []primitive.ObjectID `bson:"friends" json:"friends"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the public projection of a user embedded in populated
// responses (friend lists, request views, group members, participants).
type UserSummary struct {
	ID               primitive.ObjectID `json:"id"`
	FullName         string             `json:"fullName"`
	ProfilePic       string             `json:"profilePic"`
	NativeLanguage   string             `json:"nativeLanguage"`
	LearningLanguage string             `json:"learningLanguage"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePic:       u.ProfilePic,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
	}
}

// HasFriend reports whether id is in the user's friend set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OnboardingRequest completes a fresh account's profile
type OnboardingRequest struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=50"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage" validate:"required"`
	LearningLanguage string `json:"learningLanguage" validate:"required"`
	Location         string `json:"location" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits
type UpdateProfileRequest struct {
	FullName         string `json:"fullName,omitempty" validate:"omitempty,min=2,max=50"`
	Bio              string `json:"bio,omitempty"`
	ProfilePic       string `json:"profilePic,omitempty" validate:"omitempty,url"`
	NativeLanguage   string `json:"nativeLanguage,omitempty"`
	LearningLanguage string `json:"learningLanguage,omitempty"`
	Location         string `json:"location,omitempty"`
}

// ChangePasswordRequest defines the request body for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
