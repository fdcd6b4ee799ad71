package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/repositories"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/services"
)

const recommendedUsersLimit = 20

// UserHandler handles HTTP requests for user discovery and friendships
type UserHandler struct {
	friendship     *services.FriendshipService
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(friendship *services.FriendshipService, userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{
		friendship:     friendship,
		userRepository: userRepo,
	}
}

// RegisterUserRoutes registers user and friendship routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.GetRecommendedUsers)
	g.GET("/users/friends", h.GetFriends)
	g.DELETE("/users/friends/:id", h.RemoveFriend)

	g.POST("/users/friend-request/:id", h.SendFriendRequest)
	g.DELETE("/users/friend-request/:id", h.CancelFriendRequest)
	g.PUT("/users/friend-request/:id/accept", h.AcceptFriendRequest)
	g.PUT("/users/friend-request/:id/reject", h.RejectFriendRequest)

	g.GET("/users/friend-requests", h.GetFriendRequests)
	g.GET("/users/outgoing-friend-requests", h.GetOutgoingFriendRequests)

	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}

// GetRecommendedUsers lists onboarded users the acting user could befriend
func (h *UserHandler) GetRecommendedUsers(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	users, err := h.userRepository.GetRecommendedUsers(ctx, user, recommendedUsersLimit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summaries(users))
}

// GetFriends lists the acting user's friends
func (h *UserHandler) GetFriends(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	friends, err := h.friendship.ListFriends(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, friends)
}

// RemoveFriend unfriends the target user
func (h *UserHandler) RemoveFriend(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	friendID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.friendship.RemoveFriend(c.Request().Context(), userID, friendID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend removed"})
}

// SendFriendRequest sends a friend request to the user in the path
func (h *UserHandler) SendFriendRequest(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	recipientID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.friendship.SendRequest(c.Request().Context(), userID, recipientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, req)
}

// AcceptFriendRequest accepts a pending request addressed to the acting user
func (h *UserHandler) AcceptFriendRequest(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	requestID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.friendship.AcceptRequest(c.Request().Context(), requestID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

// RejectFriendRequest rejects a pending request addressed to the acting user
func (h *UserHandler) RejectFriendRequest(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	requestID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.friendship.RejectRequest(c.Request().Context(), requestID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend request rejected"})
}

// CancelFriendRequest cancels a pending request the acting user sent
func (h *UserHandler) CancelFriendRequest(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	requestID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.friendship.CancelRequest(c.Request().Context(), requestID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend request cancelled"})
}

// GetFriendRequests returns incoming pending requests plus accepted requests
// the acting user sent (the "new connections" notifications)
func (h *UserHandler) GetFriendRequests(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	incoming, err := h.friendship.ListIncoming(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	accepted, err := h.friendship.ListAcceptedSent(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, models.FriendRequestsPage{
		IncomingRequests: incoming,
		AcceptedRequests: accepted,
	})
}

// GetOutgoingFriendRequests returns pending requests the acting user sent
func (h *UserHandler) GetOutgoingFriendRequests(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	outgoing, err := h.friendship.ListOutgoing(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, outgoing)
}

// SearchUsers matches users by name, case-insensitively
func (h *UserHandler) SearchUsers(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusOK, []models.UserSummary{})
	}
	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summaries(users))
}

// GetUser returns a user's public profile by id
func (h *UserHandler) GetUser(c echo.Context) error {
	if _, err := actingUserID(c); err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user.Summary())
}

func summaries(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}
