package main

import (
	"context"
	"fmt"

	"github.com/anonto42/xsocial/backend/internal/handlers"
	"github.com/anonto42/xsocial/backend/internal/media"
	"github.com/anonto42/xsocial/backend/internal/middleware"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"github.com/anonto42/xsocial/backend/internal/repositories/memory"
	"github.com/anonto42/xsocial/backend/internal/router"
	"github.com/anonto42/xsocial/backend/pkg/config"
	"github.com/anonto42/xsocial/backend/pkg/firebase"
	"github.com/rs/zerolog/log"
)

// buildDependencies opens the configured stores and Firebase clients. The
// returned cleanup closes whatever was opened.
func buildDependencies(ctx context.Context, cfg *config.Config) (router.Dependencies, func(), error) {
	deps := router.Dependencies{
		JWTSecret:     cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		MaxUploadSize: cfg.MaxUploadBytes,
	}
	cleanup := func() {}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		deps.Users, deps.Posts, deps.Comments, deps.Notifications = store, store, store, store
		deps.Transactor = store
		deps.HealthChecks = map[string]handlers.Check{}
		log.Warn().Msg("Using the in-memory store; data is lost on exit")

	case config.StoreMongo:
		db, err := config.InitDB(ctx, cfg)
		if err != nil {
			return deps, cleanup, err
		}
		cleanup = db.CloseDB
		if cfg.AutoMigrate {
			if err := repositories.Migrate(ctx, db.Postgres, db.MongoDB); err != nil {
				cleanup()
				return deps, func() {}, err
			}
		}
		deps.Users = repositories.NewMongoUserRepository(db.MongoDB)
		deps.Posts = repositories.NewMongoPostRepository(db.MongoDB)
		deps.Comments = repositories.NewMongoCommentRepository(db.MongoDB)
		deps.Notifications = repositories.NewPostgresNotificationRepository(db.Postgres)
		deps.Transactor = repositories.NewMongoTransactor(db.Mongo, cfg.MongoTransactions)
		deps.HealthChecks = map[string]handlers.Check{
			"postgres": db.PingPostgres,
			"mongo":    db.PingMongo,
		}
	}

	var app *firebase.App
	if cfg.FirebaseCredentialsPath != "" {
		var err error
		if app, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket); err != nil {
			cleanup()
			return deps, func() {}, err
		}
		deps.Verifier = app.AuthClient
		deps.Directory = firebase.NewDirectory(app.AuthClient)
		if app.Bucket != nil {
			deps.Images = media.NewBucketHost(app.Bucket, app.BucketName, cfg.ImageFolder)
		}
	} else {
		log.Warn().Msg("FIREBASE_CREDENTIALS_PATH not set; session exchange and image uploads are disabled")
	}

	switch cfg.AuthMode {
	case config.AuthFirebase:
		if app == nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("AUTH_MODE=%s needs Firebase credentials", config.AuthFirebase)
		}
		deps.Auth = middleware.FirebaseAuthMiddleware(app.AuthClient)
	default:
		deps.Auth = middleware.JWTAuthMiddleware(cfg.JWTSecret)
	}

	return deps, cleanup, nil
}
