package repositories

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// addToSet adds value to the array field of document id. It reports whether
// the array changed; adding a value that is already present is a no-op.
func addToSet(ctx context.Context, coll *mongo.Collection, entity string, id primitive.ObjectID, field string, value primitive.ObjectID) (bool, error) {
	return updateSet(ctx, coll, entity, id, bson.M{"$addToSet": bson.M{field: value}})
}

// pullFromSet removes every occurrence of value from the array field of
// document id and reports whether the array changed.
func pullFromSet(ctx context.Context, coll *mongo.Collection, entity string, id primitive.ObjectID, field string, value primitive.ObjectID) (bool, error) {
	return updateSet(ctx, coll, entity, id, bson.M{"$pull": bson.M{field: value}})
}

func updateSet(ctx context.Context, coll *mongo.Collection, entity string, id primitive.ObjectID, update bson.M) (bool, error) {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, mongoError(err, entity)
	}
	if res.MatchedCount == 0 {
		return false, errs.Errorf(errs.ENOTFOUND, "%s not found", entity)
	}
	return res.ModifiedCount > 0, nil
}
