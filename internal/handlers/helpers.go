package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/middleware"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actingUserID extracts the authenticated user's id from the JWT claims the
// auth middleware stored in the context.
func actingUserID(c echo.Context) (primitive.ObjectID, error) {
	claims, ok := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims)
	if !ok {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication")
	}
	return id, nil
}

// objectIDParam parses a path parameter as an ObjectID.
func objectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// httpError maps a service error kind to an HTTP error.
func httpError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidTarget):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrDuplicateRequest),
		errors.Is(err, apperrors.ErrDuplicateMember),
		errors.Is(err, apperrors.ErrAlreadyFriends),
		errors.Is(err, apperrors.ErrInvalidState):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
