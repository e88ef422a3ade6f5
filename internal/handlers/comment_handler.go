package handlers

import (
	"net/http"

	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	posts      *services.PostService
	engagement *services.EngagementService
	users      *services.UserService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(posts *services.PostService, engagement *services.EngagementService, users *services.UserService) *CommentHandler {
	return &CommentHandler{posts: posts, engagement: engagement, users: users}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/comment/post/:postId", h.GetComments)
	g.POST("/comment/post/:postId", h.CreateComment, auth)
	g.DELETE("/comment/:commentId", h.DeleteComment, auth)
}

// GetComments returns the comments of a post, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := objectIDParam(c, "postId", "post")
	if err != nil {
		return err
	}
	comments, err := h.posts.ListComments(c.Request().Context(), postID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	postID, err := objectIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.engagement.CreateComment(c.Request().Context(), user.ID, postID, req.Content)
	if err != nil {
		return httpError(c, err)
	}
	compact := user.ToCompact()
	return c.JSON(http.StatusCreated, echo.Map{"comment": models.CommentView{Comment: *comment, User: &compact}})
}

// DeleteComment deletes one of the caller's comments
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	commentID, err := objectIDParam(c, "commentId", "comment")
	if err != nil {
		return err
	}

	if err := h.engagement.DeleteComment(c.Request().Context(), user.ID, commentID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}
