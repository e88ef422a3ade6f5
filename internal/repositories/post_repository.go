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

// PostRepository defines the interface for post data operations. Like and
// comment-index updates use set semantics on the stored arrays.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	GetPostsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID, skip, limit int64) ([]models.Post, error)
	CountPostsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (int64, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, bool, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, bool, error)
	AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return mongoError(err, "Post")
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mongoError(err, "Post")
	}
	return &post, nil
}

// GetPostsByIDs retrieves the posts with the given ids. Missing ids are skipped.
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// GetPostsByUserID retrieves posts by a specific user, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, findOptions)
}

// GetAllPosts retrieves all posts, newest first. A zero limit means no limit.
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.D{}, findOptions)
}

// GetPostsByUserIDs retrieves the posts of any of userIDs, newest first
func (r *MongoPostRepository) GetPostsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}}, findOptions)
}

// CountPostsByUserIDs counts the posts of any of userIDs
func (r *MongoPostRepository) CountPostsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return 0, mongoError(err, "Post")
	}
	return n, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoError(err, "Post")
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, mongoError(err, "Post")
	}
	return posts, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "Post")
	}
	if res.DeletedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "Post")
	}
	return nil
}

// AddLike adds userID to the like set and returns the post as stored
// afterwards, reporting whether the set changed.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, bool, error) {
	changed, err := addToSet(ctx, r.collection, "Post", postID, "likes", userID)
	if err != nil {
		return nil, false, err
	}
	post, err := r.GetPostByID(ctx, postID)
	return post, changed, err
}

// RemoveLike removes userID from the like set and returns the post as stored
// afterwards, reporting whether the set changed.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, bool, error) {
	changed, err := pullFromSet(ctx, r.collection, "Post", postID, "likes", userID)
	if err != nil {
		return nil, false, err
	}
	post, err := r.GetPostByID(ctx, postID)
	return post, changed, err
}

// AppendComment appends commentID to the post's comment index
func (r *MongoPostRepository) AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$push": bson.M{"comments": commentID}})
	if err != nil {
		return mongoError(err, "Post")
	}
	if res.MatchedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "Post")
	}
	return nil
}

// RemoveComment removes commentID from the post's comment index
func (r *MongoPostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	_, err := pullFromSet(ctx, r.collection, "Post", postID, "comments", commentID)
	return err
}
