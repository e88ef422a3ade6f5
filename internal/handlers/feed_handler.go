package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/xsocial/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	posts *services.PostService
	users *services.UserService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(posts *services.PostService, users *services.UserService) *FeedHandler {
	return &FeedHandler{posts: posts, users: users}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/feed", h.GetFeed, auth)
}

// GetFeed returns a page of the caller's feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	feed, err := h.posts.Feed(c.Request().Context(), user.ID, page, limit)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts": feed.Posts,
		"meta": echo.Map{
			"currentPage":     feed.Page,
			"totalPages":      feed.TotalPages,
			"totalItems":      feed.TotalItems,
			"itemsPerPage":    feed.Limit,
			"hasNextPage":     feed.Page < feed.TotalPages,
			"hasPreviousPage": feed.Page > 1,
		},
	})
}
