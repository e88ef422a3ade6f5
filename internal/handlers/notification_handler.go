package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/xsocial/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
	users         *services.UserService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, users *services.UserService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/notifications", h.GetNotifications, auth)
	g.DELETE("/notifications/:notificationId", h.DeleteNotification, auth)
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	notifications, err := h.notifications.List(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// DeleteNotification deletes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("notificationId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notifications.Delete(c.Request().Context(), user.ID, uint(id)); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted successfully"})
}
