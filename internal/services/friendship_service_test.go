package services

import (
	"context"
	"testing"

	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFriendshipFixture(t *testing.T) (*FriendshipService, *fakeUserRepo, *fakeFriendRequestRepo, *models.User, *models.User) {
	t.Helper()
	alice := &models.User{FullName: "Alice Martin", Email: "alice@example.com", NativeLanguage: "english", LearningLanguage: "spanish"}
	bob := &models.User{FullName: "Bob Tanaka", Email: "bob@example.com", NativeLanguage: "japanese", LearningLanguage: "english"}
	users := newFakeUserRepo(alice, bob)
	requests := newFakeFriendRequestRepo()
	return NewFriendshipService(users, requests), users, requests, alice, bob
}

func TestSendRequestToSelf(t *testing.T) {
	svc, _, _, alice, _ := newFriendshipFixture(t)

	_, err := svc.SendRequest(context.Background(), alice.ID, alice.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidTarget)
}

func TestSendRequestRecipientMissing(t *testing.T) {
	svc, _, _, alice, _ := newFriendshipFixture(t)

	_, err := svc.SendRequest(context.Background(), alice.ID, primitive.NewObjectID())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSendRequestPopulatesBothSides(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)

	view, err := svc.SendRequest(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, view.Status)
	assert.Equal(t, "Alice Martin", view.Sender.FullName)
	assert.Equal(t, "Bob Tanaka", view.Recipient.FullName)
}

func TestSendRequestDuplicateEitherDirection(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)

	_, err = svc.SendRequest(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	svc, users, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFriends)

	// Sanity: both sides linked.
	assert.Contains(t, users.friendsOf(alice.ID), bob.ID)
	assert.Contains(t, users.friendsOf(bob.ID), alice.ID)
}

func TestAcceptRequestSymmetry(t *testing.T) {
	svc, users, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	accepted, err := svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, accepted.Status)

	assert.Equal(t, []primitive.ObjectID{bob.ID}, users.friendsOf(alice.ID))
	assert.Equal(t, []primitive.ObjectID{alice.ID}, users.friendsOf(bob.ID))
}

func TestAcceptRequestOnlyRecipient(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.AcceptRequest(ctx, view.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAcceptRequestTwice(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestAcceptRequestUnknownID(t *testing.T) {
	svc, _, _, _, bob := newFriendshipFixture(t)

	_, err := svc.AcceptRequest(context.Background(), primitive.NewObjectID(), bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAcceptPartialFailureIsCompensated(t *testing.T) {
	svc, users, requests, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Second friend-set write fails; the first must be rolled back and the
	// request must stay pending.
	users.failAddFriendFor = bob.ID
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.Error(t, err)

	assert.Empty(t, users.friendsOf(alice.ID))
	assert.Empty(t, users.friendsOf(bob.ID))
	req, err := requests.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
}

func TestAcceptCompensationFailureEscalates(t *testing.T) {
	svc, users, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	users.failAddFriendFor = bob.ID
	users.failRemoveFriendFor = alice.ID
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrInconsistentState)
}

func TestAcceptStatusWriteFailureNotReportedAccepted(t *testing.T) {
	svc, _, requests, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	requests.failUpdateStatus = true
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrInconsistentState)
}

func TestRejectRequest(t *testing.T) {
	svc, _, requests, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Only the recipient may reject.
	err = svc.RejectRequest(ctx, view.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.RejectRequest(ctx, view.ID, bob.ID))
	assert.Zero(t, requests.count(), "rejected request leaves no audit record")
}

func TestCancelRequest(t *testing.T) {
	svc, _, requests, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Only the sender may cancel.
	err = svc.CancelRequest(ctx, view.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.CancelRequest(ctx, view.ID, alice.ID))
	assert.Zero(t, requests.count())
}

func TestCancelAcceptedRequest(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.NoError(t, err)

	err = svc.CancelRequest(ctx, view.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestListIncomingAndOutgoing(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	incoming, err := svc.ListIncoming(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "Alice Martin", incoming[0].Sender.FullName)

	outgoing, err := svc.ListOutgoing(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "Bob Tanaka", outgoing[0].Recipient.FullName)

	// Nothing incoming for the sender.
	incoming, err = svc.ListIncoming(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestListAcceptedSent(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.NoError(t, err)

	accepted, err := svc.ListAcceptedSent(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, models.RequestStatusAccepted, accepted[0].Status)

	// The accepted record no longer shows up as pending anywhere.
	incoming, err := svc.ListIncoming(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestRemoveFriend(t *testing.T) {
	svc, users, requests, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFriend(ctx, alice.ID, bob.ID))

	assert.Empty(t, users.friendsOf(alice.ID))
	assert.Empty(t, users.friendsOf(bob.ID))
	assert.Zero(t, requests.count(), "accepted record cleared with the friendship")

	// A fresh request is allowed again after removal.
	_, err = svc.SendRequest(ctx, bob.ID, alice.ID)
	assert.NoError(t, err)
}

func TestRemoveFriendErrors(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	err := svc.RemoveFriend(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTarget)

	err = svc.RemoveFriend(ctx, alice.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Not friends yet.
	err = svc.RemoveFriend(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListFriends(t *testing.T) {
	svc, _, _, alice, bob := newFriendshipFixture(t)
	ctx := context.Background()

	view, err := svc.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, view.ID, bob.ID)
	require.NoError(t, err)

	friends, err := svc.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)
	assert.Equal(t, "Bob Tanaka", friends[0].FullName)
}
