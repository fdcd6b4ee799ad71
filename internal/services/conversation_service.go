package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversationService owns 1:1 conversation records, created lazily on first
// contact. Uniqueness per unordered pair is enforced by the repository's
// unique pair-key index, so a lost check-then-create race resolves to the
// winner's record.
type ConversationService struct {
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
}

// NewConversationService creates a new ConversationService
func NewConversationService(conversations repositories.ConversationRepository, users repositories.UserRepository) *ConversationService {
	return &ConversationService{conversations: conversations, users: users}
}

// GetOrCreate returns the conversation between userID and otherID, creating
// it with empty last-message state if absent. Safe to call repeatedly and
// concurrently for the same pair.
func (s *ConversationService) GetOrCreate(ctx context.Context, userID, otherID primitive.ObjectID) (*models.ConversationView, error) {
	if userID == otherID {
		return nil, fmt.Errorf("cannot create a conversation with yourself: %w", apperrors.ErrInvalidTarget)
	}
	if _, err := s.users.GetUserByID(ctx, otherID); err != nil {
		return nil, err
	}

	pairKey := models.ConversationPairKey(userID, otherID)
	conv, err := s.conversations.GetByPairKey(ctx, pairKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		conv, err = s.conversations.Insert(ctx, &models.Conversation{
			Participants: []primitive.ObjectID{userID, otherID},
			PairKey:      pairKey,
		})
		if err != nil {
			return nil, err
		}
	}
	return s.populate(ctx, conv)
}

// ListForUser returns the populated conversations containing userID, most
// recently active first.
func (s *ConversationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.ConversationView, error) {
	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(convs)*2)
	for i := range convs {
		ids = append(ids, convs[i].Participants...)
	}
	byID, err := summariesByID(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConversationView, 0, len(convs))
	for i := range convs {
		views = append(views, conversationViewOf(&convs[i], byID))
	}
	return views, nil
}

func (s *ConversationService) populate(ctx context.Context, conv *models.Conversation) (*models.ConversationView, error) {
	byID, err := summariesByID(ctx, s.users, conv.Participants)
	if err != nil {
		return nil, err
	}
	view := conversationViewOf(conv, byID)
	return &view, nil
}

func conversationViewOf(conv *models.Conversation, byID map[primitive.ObjectID]models.UserSummary) models.ConversationView {
	participants := make([]models.UserSummary, 0, len(conv.Participants))
	for _, id := range conv.Participants {
		if summary, ok := byID[id]; ok {
			participants = append(participants, summary)
		}
	}
	unread := conv.UnreadCount
	if unread == nil {
		unread = map[string]int{}
	}
	return models.ConversationView{
		ID:              conv.ID,
		Participants:    participants,
		LastMessage:     conv.LastMessage,
		LastMessageTime: conv.LastMessageTime,
		UnreadCount:     unread,
		CreatedAt:       conv.CreatedAt,
	}
}
