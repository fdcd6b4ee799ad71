package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/services"
	"github.com/sourav-357/Streamify-chat-vc-platform/pkg/stream"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler handles HTTP requests for conversations, groups, and chat
// provider tokens
type ChatHandler struct {
	conversations *services.ConversationService
	groups        *services.GroupService
	stream        *stream.Client
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(conversations *services.ConversationService, groups *services.GroupService, streamClient *stream.Client) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		groups:        groups,
		stream:        streamClient,
	}
}

// RegisterChatRoutes registers conversation, group, and token routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chat/token", h.GetStreamToken)
	g.GET("/chat/conversations", h.GetConversations)
	g.GET("/chat/conversation/:otherUserId", h.GetOrCreateConversation)

	g.GET("/chat/groups", h.GetGroups)
	g.POST("/chat/groups", h.CreateGroup)
	g.POST("/chat/groups/:groupId/members", h.AddGroupMember)
	g.DELETE("/chat/groups/:groupId/members/:memberId", h.RemoveGroupMember)
	g.DELETE("/chat/groups/:groupId", h.DeleteGroup)
}

// GetStreamToken issues a hosted-chat credential for the acting user
func (h *ChatHandler) GetStreamToken(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	token, err := h.stream.CreateToken(userID.Hex())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "apiKey": h.stream.APIKey()})
}

// GetConversations lists the acting user's conversations
func (h *ChatHandler) GetConversations(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	convs, err := h.conversations.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, convs)
}

// GetOrCreateConversation returns the 1:1 conversation with the other user,
// creating it on first contact
func (h *ChatHandler) GetOrCreateConversation(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	otherID, err := objectIDParam(c, "otherUserId")
	if err != nil {
		return err
	}
	conv, err := h.conversations.GetOrCreate(c.Request().Context(), userID, otherID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conv)
}

// GetGroups lists the acting user's groups
func (h *ChatHandler) GetGroups(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	groups, err := h.groups.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// CreateGroup creates a group with the acting user as admin
func (h *ChatHandler) CreateGroup(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	memberIDs := make([]primitive.ObjectID, 0, len(req.Members))
	for _, raw := range req.Members {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid member ID: "+raw)
		}
		memberIDs = append(memberIDs, id)
	}

	group, err := h.groups.Create(c.Request().Context(), userID, req.Name, req.Description, memberIDs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, group)
}

// AddGroupMember adds a member to a group; admin only
func (h *ChatHandler) AddGroupMember(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	groupID, err := objectIDParam(c, "groupId")
	if err != nil {
		return err
	}

	var req models.AddGroupMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid member ID")
	}

	group, err := h.groups.AddMember(c.Request().Context(), groupID, userID, memberID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, group)
}

// RemoveGroupMember removes a member from a group; admin or self
func (h *ChatHandler) RemoveGroupMember(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	groupID, err := objectIDParam(c, "groupId")
	if err != nil {
		return err
	}
	memberID, err := objectIDParam(c, "memberId")
	if err != nil {
		return err
	}

	group, err := h.groups.RemoveMember(c.Request().Context(), groupID, userID, memberID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, group)
}

// DeleteGroup deletes a group; admin only
func (h *ChatHandler) DeleteGroup(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	groupID, err := objectIDParam(c, "groupId")
	if err != nil {
		return err
	}
	if err := h.groups.Delete(c.Request().Context(), groupID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Group deleted successfully"})
}
