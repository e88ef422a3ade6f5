package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/xsocial/backend/internal/media"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts         *services.PostService
	engagement    *services.EngagementService
	users         *services.UserService
	maxUploadSize int64
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, engagement *services.EngagementService, users *services.UserService, maxUploadSize int64) *PostHandler {
	return &PostHandler{
		posts:         posts,
		engagement:    engagement,
		users:         users,
		maxUploadSize: maxUploadSize,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/user/:username", h.GetUserPosts)
	g.GET("/posts/:postId", h.GetPost)
	g.POST("/posts", h.CreatePost, auth)
	g.POST("/posts/:postId/like", h.ToggleLike, auth)
	g.DELETE("/posts/:postId", h.DeletePost, auth)
}

// GetPosts returns all posts, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.posts.ListPosts(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetUserPosts returns the posts of one user, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	posts, err := h.posts.ListPostsByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := objectIDParam(c, "postId", "post")
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.Request().Context(), postID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// CreatePost creates a post from a multipart form with "content" and an
// optional "image" file
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var image *media.Image
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	default:
		if image, err = media.ReadImage(fh, h.maxUploadSize); err != nil {
			return httpError(c, err)
		}
	}

	post, err := h.posts.CreatePost(c.Request().Context(), user.ID, req.Content, image)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"post": post})
}

// ToggleLike likes or unlikes a post
func (h *PostHandler) ToggleLike(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	postID, err := objectIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	res, err := h.engagement.ToggleLike(c.Request().Context(), user.ID, postID)
	if err != nil {
		return httpError(c, err)
	}

	message := "Post unliked successfully"
	if res.Liked {
		message = "Post liked successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": res.Liked, "likeCount": res.LikeCount, "message": message})
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	user, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	postID, err := objectIDParam(c, "postId", "post")
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), user.ID, postID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
