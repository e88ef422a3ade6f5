package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Comments holds the
// ids of the post's comments in creation order.
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `json:"user_id" bson:"user_id"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// IsLikedBy reports whether userID is in the post's like set.
func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	return ContainsID(p.Likes, userID)
}

// CreatePostRequest holds the text part of a multipart post submission.
// The image arrives as a separate form file.
type CreatePostRequest struct {
	Content string `json:"content" form:"content" validate:"max=280"`
}

// PostView is a post with its author and comments resolved.
type PostView struct {
	Post
	User     *UserCompact  `json:"user"`
	Comments []CommentView `json:"comments"`
}
