package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a profile stored in MongoDB. Follow edges are kept on both sides:
// B is in A.Following exactly when A is in B.Followers.
type User struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ExternalID     string               `json:"-" bson:"external_id"` // identity provider UID
	Email          string               `json:"email" bson:"email"`
	Username       string               `json:"username" bson:"username"`
	FirstName      string               `json:"first_name" bson:"first_name"`
	LastName       string               `json:"last_name" bson:"last_name"`
	ProfilePicture string               `json:"profile_picture" bson:"profile_picture"`
	BannerImage    string               `json:"banner_image" bson:"banner_image"`
	Bio            string               `json:"bio" bson:"bio"`
	Location       string               `json:"location" bson:"location"`
	Following      []primitive.ObjectID `json:"following" bson:"following"`
	Followers      []primitive.ObjectID `json:"followers" bson:"followers"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the author/actor summary embedded in posts, comments and
// notifications.
type UserCompact struct {
	ID             primitive.ObjectID `json:"id"`
	Username       string             `json:"username"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	ProfilePicture string             `json:"profile_picture"`
}

// ToCompact returns the public summary of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

// IsFollowing reports whether the user follows id.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	return ContainsID(u.Following, id)
}

// UpdateProfileRequest defines the fields a user may change on their own
// profile. Empty fields are left untouched.
type UpdateProfileRequest struct {
	Username       string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	FirstName      string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName       string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=160"`
	Location       string `json:"location,omitempty" validate:"omitempty,max=50"`
	ProfilePicture string `json:"profile_picture,omitempty" validate:"omitempty,url"`
	BannerImage    string `json:"banner_image,omitempty" validate:"omitempty,url"`
}

// SessionClaims are the claims of a session token issued after an identity
// provider token has been verified.
type SessionClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// ContainsID reports whether ids contains id.
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
