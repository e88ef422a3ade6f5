package services

import (
	"context"
	"strings"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeResult is the like state of a post after a toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// EngagementService applies likes and comments to posts.
type EngagementService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	tx       repositories.Transactor
	notifier *Notifier
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	tx repositories.Transactor,
	notifier *Notifier,
) *EngagementService {
	return &EngagementService{
		users:    users,
		posts:    posts,
		comments: comments,
		tx:       tx,
		notifier: notifier,
	}
}

// ToggleLike likes the post if the actor has not liked it and unlikes it
// otherwise. The owner is notified when a like was actually added by someone
// else; an unlike never notifies.
func (s *EngagementService) ToggleLike(ctx context.Context, actorID, postID primitive.ObjectID) (*LikeResult, error) {
	if _, err := s.users.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.IsLikedBy(actorID) {
		updated, _, err := s.posts.RemoveLike(ctx, postID, actorID)
		if err != nil {
			return nil, err
		}
		return &LikeResult{Liked: false, LikeCount: len(updated.Likes)}, nil
	}

	updated, changed, err := s.posts.AddLike(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if changed && post.UserID != actorID {
		notifyBestEffort(ctx, s.notifier, actorID, post.UserID, models.NotificationLike, NotificationRefs{PostID: &post.ID})
	}
	return &LikeResult{Liked: true, LikeCount: len(updated.Likes)}, nil
}

// CreateComment adds a comment to a post and appends it to the post's
// comment index. The post owner is notified unless they wrote the comment.
func (s *EngagementService) CreateComment(ctx context.Context, actorID, postID primitive.ObjectID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.Errorf(errs.EINVALID, "Comment content is required")
	}

	if _, err := s.users.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:  actorID,
		PostID:  postID,
		Content: content,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		if err := s.posts.AppendComment(ctx, postID, comment.ID); err != nil {
			// Inside a transaction the abort discards the insert as well.
			if derr := s.comments.DeleteComment(ctx, comment.ID); derr != nil {
				log.Ctx(ctx).Error().Err(derr).Str("comment", comment.ID.Hex()).Msg("orphan comment left behind")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if post.UserID != actorID {
		notifyBestEffort(ctx, s.notifier, actorID, post.UserID, models.NotificationComment, NotificationRefs{
			PostID:    &post.ID,
			CommentID: &comment.ID,
		})
	}
	return comment, nil
}

// DeleteComment deletes a comment written by the actor. The id is removed
// from the post index before the record is deleted, so a failure in between
// leaves an orphan record rather than a dangling id.
func (s *EngagementService) DeleteComment(ctx context.Context, actorID, commentID primitive.ObjectID) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actorID {
		return errs.Errorf(errs.EFORBIDDEN, "You can only delete your own comments")
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.RemoveComment(ctx, comment.PostID, comment.ID); err != nil && !errs.Is(err, errs.ENOTFOUND) {
			return err
		}
		return s.comments.DeleteComment(ctx, comment.ID)
	})
}
