package services

import (
	"context"
	"strings"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/media"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostService creates, reads and deletes posts.
type PostService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	tx       repositories.Transactor
	images   media.ImageHost
}

// NewPostService creates a new PostService. images may be nil, in which case
// posts with an image are rejected as unavailable.
func NewPostService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	tx repositories.Transactor,
	images media.ImageHost,
) *PostService {
	return &PostService{users: users, posts: posts, comments: comments, tx: tx, images: images}
}

// CreatePost stores a post with text, an image, or both.
func (s *PostService) CreatePost(ctx context.Context, actorID primitive.ObjectID, content string, image *media.Image) (*models.PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" && image == nil {
		return nil, errs.Errorf(errs.EINVALID, "Post must contain either text or image")
	}

	author, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{UserID: actorID, Content: content}
	if image != nil {
		if s.images == nil {
			return nil, errs.Errorf(errs.EUNAVAILABLE, "image host not configured")
		}
		url, err := s.images.Upload(ctx, image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("post", post.ID.Hex()).Bool("image", post.Image != "").Msg("post created")

	compact := author.ToCompact()
	return &models.PostView{Post: *post, User: &compact, Comments: []models.CommentView{}}, nil
}

// GetPost returns one post with its author and comments.
func (s *PostService) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	views, err := postViews(ctx, s.users, s.comments, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListPosts returns all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.posts.GetAllPosts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	return postViews(ctx, s.users, s.comments, posts)
}

// ListPostsByUsername returns the posts of one user, newest first.
func (s *PostService) ListPostsByUsername(ctx context.Context, username string) ([]models.PostView, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByUserID(ctx, user.ID, 0, 0)
	if err != nil {
		return nil, err
	}
	return postViews(ctx, s.users, s.comments, posts)
}

// ListComments returns the comments of a post, newest first.
func (s *PostService) ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.CommentView, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := userIndex(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.CommentView{Comment: c, User: authors[c.UserID]})
	}
	return views, nil
}

// DeletePost deletes a post owned by the actor together with its comments.
// Comments go first so that no comment outlives its post.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID primitive.ObjectID) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return errs.Errorf(errs.EFORBIDDEN, "You can only delete your own posts")
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.comments.DeleteCommentsByPostID(ctx, postID)
		if err != nil {
			return err
		}
		log.Ctx(ctx).Debug().Str("post", postID.Hex()).Int64("comments", n).Msg("post comments deleted")
		return s.posts.DeletePost(ctx, postID)
	})
}
