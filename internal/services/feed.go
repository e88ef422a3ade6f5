package services

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedPost is a post in a user's feed.
type FeedPost struct {
	models.PostView
	IsLiked bool `json:"is_liked"`
}

// FeedPage is one page of a feed.
type FeedPage struct {
	Posts      []FeedPost `json:"posts"`
	Page       int        `json:"currentPage"`
	Limit      int        `json:"itemsPerPage"`
	TotalItems int64      `json:"totalItems"`
	TotalPages int        `json:"totalPages"`
}

// Feed returns the posts of the users the actor follows and the actor's own
// posts, newest first. page starts at 1.
func (s *PostService) Feed(ctx context.Context, actorID primitive.ObjectID, page, limit int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	authors := append([]primitive.ObjectID{actorID}, actor.Following...)

	total, err := s.posts.CountPostsByUserIDs(ctx, authors)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByUserIDs(ctx, authors, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, err
	}
	views, err := postViews(ctx, s.users, s.comments, posts)
	if err != nil {
		return nil, err
	}

	feed := &FeedPage{
		Posts:      make([]FeedPost, 0, len(views)),
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
	for _, v := range views {
		feed.Posts = append(feed.Posts, FeedPost{PostView: v, IsLiked: v.IsLikedBy(actorID)})
	}
	return feed, nil
}
