package repositories

import (
	"context"
	"time"

	"github.com/anonto42/xsocial/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations. The edge
// methods touch one side of a follow edge each and report whether the set
// changed.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error)
	AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) (bool, error)
	RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) (bool, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user with empty edge sets.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return mongoError(err, "User")
}

// GetUserByID retrieves a user by ID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByExternalID retrieves a user by identity provider UID
func (r *MongoUserRepository) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"external_id": externalID})
}

// GetUserByUsername retrieves a user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoError(err, "User")
	}
	return &user, nil
}

// GetUsersByIDs retrieves the users with the given ids. Missing ids are skipped.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mongoError(err, "User")
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, mongoError(err, "User")
	}
	return users, nil
}

// UpdateProfile sets the non-empty fields of req and returns the updated user.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	fields := map[string]string{
		"username":        req.Username,
		"first_name":      req.FirstName,
		"last_name":       req.LastName,
		"bio":             req.Bio,
		"location":        req.Location,
		"profile_picture": req.ProfilePicture,
		"banner_image":    req.BannerImage,
	}
	for k, v := range fields {
		if v != "" {
			set[k] = v
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, mongoError(err, "User")
	}
	return &user, nil
}

// AddFollowing adds targetID to the following set of userID
func (r *MongoUserRepository) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return addToSet(ctx, r.collection, "User", userID, "following", targetID)
}

// RemoveFollowing removes targetID from the following set of userID
func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return pullFromSet(ctx, r.collection, "User", userID, "following", targetID)
}

// AddFollower adds followerID to the followers set of userID
func (r *MongoUserRepository) AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) (bool, error) {
	return addToSet(ctx, r.collection, "User", userID, "followers", followerID)
}

// RemoveFollower removes followerID from the followers set of userID
func (r *MongoUserRepository) RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) (bool, error) {
	return pullFromSet(ctx, r.collection, "User", userID, "followers", followerID)
}
