package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// Migrate creates the MongoDB indexes and auto-migrates the PostgreSQL models.
func Migrate(ctx context.Context, pgdb *gorm.DB, mgdb *mongo.Database) error {
	if err := pgdb.WithContext(ctx).AutoMigrate(&models.Notification{}); err != nil {
		return fmt.Errorf("auto migrate notifications: %w", err)
	}
	log.Info().Msg("PostgreSQL auto-migrations completed")

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "external_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"posts": {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := mgdb.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	log.Info().Msg("MongoDB indexes ensured")
	return nil
}
