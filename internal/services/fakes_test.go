package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errWriteFailed = errors.New("simulated write failure")

// fakeUserRepo is an in-memory UserRepository. failAddFriendFor and
// failRemoveFriendFor make the corresponding write fail when the first
// argument matches, to exercise the partial-failure paths.
type fakeUserRepo struct {
	mu                  sync.Mutex
	users               map[primitive.ObjectID]*models.User
	failAddFriendFor    primitive.ObjectID
	failRemoveFriendFor primitive.ObjectID
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		if u.Friends == nil {
			u.Friends = []primitive.ObjectID{}
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	cp := *u
	cp.Friends = append([]primitive.ObjectID{}, u.Friends...)
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[primitive.ObjectID]bool{}
	var out []models.User
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetRecommendedUsers(_ context.Context, forUser *models.User, limit int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.ID == forUser.ID || !u.IsOnboarded || forUser.HasFriend(u.ID) {
			continue
		}
		out = append(out, *u)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SearchUsers(_ context.Context, query string, exclude primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.ID != exclude && strings.Contains(strings.ToLower(u.FullName), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), apperrors.ErrNotFound)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID == r.failAddFriendFor {
		return errWriteFailed
	}
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	if !u.HasFriend(friendID) {
		u.Friends = append(u.Friends, friendID)
	}
	return nil
}

func (r *fakeUserRepo) RemoveFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID == r.failRemoveFriendFor {
		return errWriteFailed
	}
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	kept := u.Friends[:0]
	for _, f := range u.Friends {
		if f != friendID {
			kept = append(kept, f)
		}
	}
	u.Friends = kept
	return nil
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

func (r *fakeUserRepo) friendsOf(id primitive.ObjectID) []primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]primitive.ObjectID{}, r.users[id].Friends...)
}

// fakeFriendRequestRepo is an in-memory FriendRequestRepository.
type fakeFriendRequestRepo struct {
	mu               sync.Mutex
	requests         map[primitive.ObjectID]*models.FriendRequest
	failUpdateStatus bool
}

func newFakeFriendRequestRepo() *fakeFriendRequestRepo {
	return &fakeFriendRequestRepo{requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

func (r *fakeFriendRequestRepo) Create(_ context.Context, req *models.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = primitive.NewObjectID()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeFriendRequestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	cp := *req
	return &cp, nil
}

func (r *fakeFriendRequestRepo) GetActiveBetween(_ context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if (req.Sender == a && req.Recipient == b) || (req.Sender == b && req.Recipient == a) {
			cp := *req
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("friend request between %s and %s: %w", a.Hex(), b.Hex(), apperrors.ErrNotFound)
}

func (r *fakeFriendRequestRepo) ListByRecipient(_ context.Context, userID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.FriendRequest
	for _, req := range r.requests {
		if req.Recipient == userID && req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeFriendRequestRepo) ListBySender(_ context.Context, userID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.FriendRequest
	for _, req := range r.requests {
		if req.Sender == userID && req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeFriendRequestRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateStatus {
		return errWriteFailed
	}
	req, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	req.Status = status
	return nil
}

func (r *fakeFriendRequestRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	delete(r.requests, id)
	return nil
}

func (r *fakeFriendRequestRepo) DeleteBetween(_ context.Context, a, b primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, req := range r.requests {
		if (req.Sender == a && req.Recipient == b) || (req.Sender == b && req.Recipient == a) {
			delete(r.requests, id)
		}
	}
	return nil
}

func (r *fakeFriendRequestRepo) EnsureIndexes(context.Context) error { return nil }

func (r *fakeFriendRequestRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

// fakeGroupRepo is an in-memory GroupRepository.
type fakeGroupRepo struct {
	mu     sync.Mutex
	groups map[primitive.ObjectID]*models.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[primitive.ObjectID]*models.Group)}
}

func (r *fakeGroupRepo) Create(_ context.Context, group *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	group.ID = primitive.NewObjectID()
	cp := *group
	cp.Members = append([]primitive.ObjectID{}, group.Members...)
	r.groups[group.ID] = &cp
	return nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	cp := *g
	cp.Members = append([]primitive.ObjectID{}, g.Members...)
	return &cp, nil
}

func (r *fakeGroupRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Group
	for _, g := range r.groups {
		if g.Admin == userID || g.HasMember(userID) {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out, nil
}

func (r *fakeGroupRepo) AddMember(_ context.Context, groupID, memberID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID.Hex(), apperrors.ErrNotFound)
	}
	if !g.HasMember(memberID) {
		g.Members = append(g.Members, memberID)
	}
	return nil
}

func (r *fakeGroupRepo) RemoveMember(_ context.Context, groupID, memberID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID.Hex(), apperrors.ErrNotFound)
	}
	kept := g.Members[:0]
	for _, m := range g.Members {
		if m != memberID {
			kept = append(kept, m)
		}
	}
	g.Members = kept
	return nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[id]; !ok {
		return fmt.Errorf("group %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	delete(r.groups, id)
	return nil
}

func (r *fakeGroupRepo) EnsureIndexes(context.Context) error { return nil }

func (r *fakeGroupRepo) membersOf(id primitive.ObjectID) []primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]primitive.ObjectID{}, r.groups[id].Members...)
}

// fakeConversationRepo is an in-memory ConversationRepository keyed by pair
// key, mirroring the unique index: Insert on an existing key returns the
// stored document. missOnce makes the next GetByPairKey miss even when the
// document exists, to reproduce the check-then-create race.
type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	missOnce      bool
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*models.Conversation)}
}

func (r *fakeConversationRepo) GetByPairKey(_ context.Context, pairKey string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missOnce {
		r.missOnce = false
		return nil, fmt.Errorf("conversation %s: %w", pairKey, apperrors.ErrNotFound)
	}
	conv, ok := r.conversations[pairKey]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", pairKey, apperrors.ErrNotFound)
	}
	cp := *conv
	return &cp, nil
}

func (r *fakeConversationRepo) Insert(_ context.Context, conv *models.Conversation) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.conversations[conv.PairKey]; ok {
		cp := *existing
		return &cp, nil
	}
	conv.ID = primitive.NewObjectID()
	if conv.UnreadCount == nil {
		conv.UnreadCount = map[string]int{}
	}
	cp := *conv
	r.conversations[conv.PairKey] = &cp
	return conv, nil
}

func (r *fakeConversationRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Conversation
	for _, conv := range r.conversations {
		for _, p := range conv.Participants {
			if p == userID {
				out = append(out, *conv)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out, nil
}

func (r *fakeConversationRepo) EnsureIndexes(context.Context) error { return nil }

func (r *fakeConversationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conversations)
}
