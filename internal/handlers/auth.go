package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/apperrors"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers the unprotected authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

// RegisterProfileRoutes registers the authenticated account routes
func (h *AuthHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
	g.PUT("/auth/me", h.UpdateProfile)
	g.POST("/auth/onboarding", h.Onboarding)
	g.PUT("/auth/change-password", h.ChangePassword)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Email already in use")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return httpError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := &models.User{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   string(hashed),
		ProfilePic: "https://ui-avatars.com/api/?name=" + url.QueryEscape(req.FullName) + "&background=random",
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return httpError(err)
	}

	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

// Login authenticates with email and password and returns a session token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return httpError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// Logout is a no-op on the server; the client discards its token. Kept so
// the route surface matches the client.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Me returns the authenticated user's full record
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Onboarding completes a fresh account's profile and marks it onboarded
func (h *AuthHandler) Onboarding(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req models.OnboardingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	user.FullName = req.FullName
	user.Bio = req.Bio
	user.NativeLanguage = req.NativeLanguage
	user.LearningLanguage = req.LearningLanguage
	user.Location = req.Location
	user.IsOnboarded = true

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the authenticated user's profile fields
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}
	if req.NativeLanguage != "" {
		user.NativeLanguage = req.NativeLanguage
	}
	if req.LearningLanguage != "" {
		user.LearningLanguage = req.LearningLanguage
	}
	if req.Location != "" {
		user.Location = req.Location
	}

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword verifies the current password and stores a new hash
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	user.Password = string(hashed)

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated"})
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
