package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendshipService owns the friend-request lifecycle and is the only writer
// of users' friend sets. Requests move none → pending → accepted; reject and
// cancel delete the record. Both friend sets are written before a request is
// ever marked accepted, so an accepted request with an asymmetric graph is
// not observable.
type FriendshipService struct {
	users    repositories.UserRepository
	requests repositories.FriendRequestRepository
}

// NewFriendshipService creates a new FriendshipService
func NewFriendshipService(users repositories.UserRepository, requests repositories.FriendRequestRepository) *FriendshipService {
	return &FriendshipService{users: users, requests: requests}
}

// SendRequest creates a pending friend request from sender to recipient.
func (s *FriendshipService) SendRequest(ctx context.Context, sender, recipient primitive.ObjectID) (*models.FriendRequestView, error) {
	if sender == recipient {
		return nil, fmt.Errorf("cannot send a friend request to yourself: %w", apperrors.ErrInvalidTarget)
	}

	senderUser, err := s.users.GetUserByID(ctx, sender)
	if err != nil {
		return nil, err
	}
	recipientUser, err := s.users.GetUserByID(ctx, recipient)
	if err != nil {
		return nil, err
	}

	if senderUser.HasFriend(recipient) {
		return nil, apperrors.ErrAlreadyFriends
	}

	existing, err := s.requests.GetActiveBetween(ctx, sender, recipient)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.RequestStatusAccepted {
			return nil, apperrors.ErrAlreadyFriends
		}
		return nil, apperrors.ErrDuplicateRequest
	}

	req := &models.FriendRequest{
		Sender:    sender,
		Recipient: recipient,
		Status:    models.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	view := viewOf(req, senderUser.Summary(), recipientUser.Summary())
	return &view, nil
}

// AcceptRequest accepts a pending request addressed to actingUser. The friend
// graph is linked first; only then is the record marked accepted.
func (s *FriendshipService) AcceptRequest(ctx context.Context, requestID, actingUser primitive.ObjectID) (*models.FriendRequestView, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Recipient != actingUser {
		return nil, fmt.Errorf("only the recipient may accept a friend request: %w", apperrors.ErrForbidden)
	}
	if req.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("request is not pending: %w", apperrors.ErrInvalidState)
	}

	if err := s.link(ctx, req.Sender, req.Recipient); err != nil {
		return nil, err
	}

	if err := s.requests.UpdateStatus(ctx, req.ID, models.RequestStatusAccepted); err != nil {
		// The graph is linked but the ledger still says pending. Surface it
		// loudly; the request must not be reported as accepted.
		log.Printf("ALERT: friend graph linked for request %s but status update failed: %v", req.ID.Hex(), err)
		return nil, fmt.Errorf("request %s accepted but not recorded: %w", req.ID.Hex(), apperrors.ErrInconsistentState)
	}
	req.Status = models.RequestStatusAccepted

	return s.populate(ctx, req)
}

// RejectRequest deletes a pending request; only the recipient may do so.
func (s *FriendshipService) RejectRequest(ctx context.Context, requestID, actingUser primitive.ObjectID) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Recipient != actingUser {
		return fmt.Errorf("only the recipient may reject a friend request: %w", apperrors.ErrForbidden)
	}
	if req.Status != models.RequestStatusPending {
		return fmt.Errorf("request is not pending: %w", apperrors.ErrInvalidState)
	}
	return s.requests.Delete(ctx, req.ID)
}

// CancelRequest deletes a pending request; only the sender may do so.
func (s *FriendshipService) CancelRequest(ctx context.Context, requestID, actingUser primitive.ObjectID) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Sender != actingUser {
		return fmt.Errorf("only the sender may cancel a friend request: %w", apperrors.ErrForbidden)
	}
	if req.Status != models.RequestStatusPending {
		return fmt.Errorf("request is not pending: %w", apperrors.ErrInvalidState)
	}
	return s.requests.Delete(ctx, req.ID)
}

// ListIncoming returns pending requests addressed to userID, populated.
func (s *FriendshipService) ListIncoming(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequestView, error) {
	reqs, err := s.requests.ListByRecipient(ctx, userID, models.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, reqs)
}

// ListOutgoing returns pending requests sent by userID, populated.
func (s *FriendshipService) ListOutgoing(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequestView, error) {
	reqs, err := s.requests.ListBySender(ctx, userID, models.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, reqs)
}

// ListAcceptedSent returns accepted requests userID sent. These are the
// "your request was accepted" notifications; they are kept until the
// friendship is removed.
func (s *FriendshipService) ListAcceptedSent(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequestView, error) {
	reqs, err := s.requests.ListBySender(ctx, userID, models.RequestStatusAccepted)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, reqs)
}

// ListFriends returns the public summaries of userID's friends.
func (s *FriendshipService) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]models.UserSummary, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID, err := summariesByID(ctx, s.users, user.Friends)
	if err != nil {
		return nil, err
	}
	friends := make([]models.UserSummary, 0, len(user.Friends))
	for _, id := range user.Friends {
		if summary, ok := byID[id]; ok {
			friends = append(friends, summary)
		}
	}
	return friends, nil
}

// RemoveFriend unlinks both friend sets and clears the accepted ledger record
// for the pair. Friend removal is direct and mutual, not a negotiated
// transition, so no request entity is involved beyond the cleanup.
func (s *FriendshipService) RemoveFriend(ctx context.Context, actingUser, friendID primitive.ObjectID) error {
	if actingUser == friendID {
		return fmt.Errorf("cannot unfriend yourself: %w", apperrors.ErrInvalidTarget)
	}
	acting, err := s.users.GetUserByID(ctx, actingUser)
	if err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, friendID); err != nil {
		return err
	}
	if !acting.HasFriend(friendID) {
		return fmt.Errorf("friendship: %w", apperrors.ErrNotFound)
	}

	if err := s.unlink(ctx, actingUser, friendID); err != nil {
		return err
	}
	return s.requests.DeleteBetween(ctx, actingUser, friendID)
}

// link adds each user to the other's friend set. $addToSet makes each side
// idempotent; a failure on the second side is compensated by undoing the
// first, and a failed compensation escalates to ErrInconsistentState.
func (s *FriendshipService) link(ctx context.Context, a, b primitive.ObjectID) error {
	if err := s.users.AddFriend(ctx, a, b); err != nil {
		return err
	}
	if err := s.users.AddFriend(ctx, b, a); err != nil {
		if undoErr := s.users.RemoveFriend(ctx, a, b); undoErr != nil {
			log.Printf("ALERT: friend graph asymmetric between %s and %s: link failed (%v) and compensation failed (%v)", a.Hex(), b.Hex(), err, undoErr)
			return fmt.Errorf("linking %s and %s: %w", a.Hex(), b.Hex(), apperrors.ErrInconsistentState)
		}
		return err
	}
	return nil
}

// unlink removes each user from the other's friend set. $pull is idempotent,
// so a retry after a partial failure converges.
func (s *FriendshipService) unlink(ctx context.Context, a, b primitive.ObjectID) error {
	if err := s.users.RemoveFriend(ctx, a, b); err != nil {
		return err
	}
	if err := s.users.RemoveFriend(ctx, b, a); err != nil {
		log.Printf("ALERT: friend graph asymmetric between %s and %s: unlink second write failed: %v", a.Hex(), b.Hex(), err)
		return fmt.Errorf("unlinking %s and %s: %w", a.Hex(), b.Hex(), apperrors.ErrInconsistentState)
	}
	return nil
}

func (s *FriendshipService) populate(ctx context.Context, req *models.FriendRequest) (*models.FriendRequestView, error) {
	views, err := s.populateAll(ctx, []models.FriendRequest{*req})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *FriendshipService) populateAll(ctx context.Context, reqs []models.FriendRequest) ([]models.FriendRequestView, error) {
	ids := make([]primitive.ObjectID, 0, len(reqs)*2)
	for i := range reqs {
		ids = append(ids, reqs[i].Sender, reqs[i].Recipient)
	}
	byID, err := summariesByID(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.FriendRequestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, viewOf(&reqs[i], byID[reqs[i].Sender], byID[reqs[i].Recipient]))
	}
	return views, nil
}

func viewOf(req *models.FriendRequest, sender, recipient models.UserSummary) models.FriendRequestView {
	return models.FriendRequestView{
		ID:        req.ID,
		Sender:    sender,
		Recipient: recipient,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}
}
