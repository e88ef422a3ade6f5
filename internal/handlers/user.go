package handlers

import (
	"net/http"

	"github.com/anonto42/xsocial/backend/internal/middleware"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users *services.UserService
	graph *services.GraphService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, graph *services.GraphService) *UserHandler {
	return &UserHandler{users: users, graph: graph}
}

// RegisterUserRoutes registers user routes. Routes acting as the caller go
// through auth.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/users/profile/:username", h.GetProfile)
	g.POST("/users/sync", h.SyncUser, auth)
	g.GET("/users/me", h.GetCurrentUser, auth)
	g.POST("/users/me", h.GetCurrentUser, auth)
	g.PUT("/users/profile", h.UpdateProfile, auth)
	g.POST("/users/follow/:targetUserId", h.ToggleFollow, auth)
}

// GetProfile returns a public profile by username
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.users.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// SyncUser creates the local user of the caller on first sign-in
func (h *UserHandler) SyncUser(c echo.Context) error {
	user, created, err := h.users.Sync(c.Request().Context(), middleware.IdentityUID(c))
	if err != nil {
		return httpError(c, err)
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{"user": user, "message": "User already exists"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "message": "User created successfully"})
}

// GetCurrentUser returns the caller's user
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateProfile updates the caller's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c, h.users)
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

	updated, err := h.users.UpdateProfile(c.Request().Context(), user.ID, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": updated})
}

// ToggleFollow follows or unfollows the target user
func (h *UserHandler) ToggleFollow(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	targetID, err := objectIDParam(c, "targetUserId", "user")
	if err != nil {
		return err
	}

	res, err := h.graph.ToggleFollow(c.Request().Context(), user.ID, targetID)
	if err != nil {
		return httpError(c, err)
	}

	message := "User unfollowed successfully"
	if res.Following {
		message = "User followed successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"following": res.Following, "message": message})
}
