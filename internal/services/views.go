package services

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userIndex loads the compact form of every user in ids with one query.
func userIndex(ctx context.Context, users repositories.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserCompact, error) {
	found, err := users.GetUsersByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	index := make(map[primitive.ObjectID]*models.UserCompact, len(found))
	for i := range found {
		c := found[i].ToCompact()
		index[c.ID] = &c
	}
	return index, nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// postViews resolves authors and comments for posts. Comments keep the order
// of the post's comment index; ids whose record is gone are skipped.
func postViews(ctx context.Context, users repositories.UserRepository, comments repositories.CommentRepository, posts []models.Post) ([]models.PostView, error) {
	var commentIDs []primitive.ObjectID
	for _, p := range posts {
		commentIDs = append(commentIDs, p.Comments...)
	}
	found, err := comments.GetCommentsByIDs(ctx, uniqueIDs(commentIDs))
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Comment, len(found))
	userIDs := make([]primitive.ObjectID, 0, len(posts)+len(found))
	for _, c := range found {
		byID[c.ID] = c
		userIDs = append(userIDs, c.UserID)
	}
	for _, p := range posts {
		userIDs = append(userIDs, p.UserID)
	}

	authors, err := userIndex(ctx, users, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		view := models.PostView{
			Post:     p,
			User:     authors[p.UserID],
			Comments: make([]models.CommentView, 0, len(p.Comments)),
		}
		for _, id := range p.Comments {
			if c, ok := byID[id]; ok {
				view.Comments = append(view.Comments, models.CommentView{Comment: c, User: authors[c.UserID]})
			}
		}
		views = append(views, view)
	}
	return views, nil
}
