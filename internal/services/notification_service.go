package services

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService serves a recipient's notifications.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		posts:         posts,
		comments:      comments,
	}
}

// List returns the recipient's notifications, newest first, with actor,
// post and comment resolved. References to deleted records are left nil.
func (s *NotificationService) List(ctx context.Context, recipientID primitive.ObjectID) ([]models.NotificationView, error) {
	notifications, err := s.notifications.GetByRecipientID(ctx, recipientID.Hex())
	if err != nil {
		return nil, err
	}

	var actorIDs, postIDs, commentIDs []primitive.ObjectID
	for _, n := range notifications {
		if id, ok := parseRef(&n.ActorID); ok {
			actorIDs = append(actorIDs, id)
		}
		if id, ok := parseRef(n.PostID); ok {
			postIDs = append(postIDs, id)
		}
		if id, ok := parseRef(n.CommentID); ok {
			commentIDs = append(commentIDs, id)
		}
	}

	actors, err := userIndex(ctx, s.users, actorIDs)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByIDs(ctx, uniqueIDs(postIDs))
	if err != nil {
		return nil, err
	}
	postIndex := make(map[primitive.ObjectID]*models.PostPreview, len(posts))
	for _, p := range posts {
		postIndex[p.ID] = &models.PostPreview{ID: p.ID.Hex(), Content: p.Content, Image: p.Image}
	}
	comments, err := s.comments.GetCommentsByIDs(ctx, uniqueIDs(commentIDs))
	if err != nil {
		return nil, err
	}
	commentIndex := make(map[primitive.ObjectID]*models.CommentPreview, len(comments))
	for _, c := range comments {
		commentIndex[c.ID] = &models.CommentPreview{ID: c.ID.Hex(), Content: c.Content}
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := models.NotificationView{ID: n.ID, Type: n.Type, CreatedAt: n.CreatedAt}
		if id, ok := parseRef(&n.ActorID); ok {
			view.From = actors[id]
		}
		if id, ok := parseRef(n.PostID); ok {
			view.Post = postIndex[id]
		}
		if id, ok := parseRef(n.CommentID); ok {
			view.Comment = commentIndex[id]
		}
		views = append(views, view)
	}
	return views, nil
}

// Delete removes a notification addressed to recipientID.
func (s *NotificationService) Delete(ctx context.Context, recipientID primitive.ObjectID, id uint) error {
	return s.notifications.DeleteForRecipient(ctx, id, recipientID.Hex())
}

func parseRef(ref *string) (primitive.ObjectID, bool) {
	if ref == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(*ref)
	return id, err == nil
}
