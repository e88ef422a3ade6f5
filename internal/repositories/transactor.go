package repositories

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs multi-document operations. Implementations without
// transaction support run fn directly, so callers must order their steps so
// that a partial failure leaves the safer state behind.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor runs fn inside a MongoDB multi-document transaction when
// enabled. Transactions need a replica set or sharded cluster.
type MongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

// NewMongoTransactor creates a new MongoTransactor
func NewMongoTransactor(client *mongo.Client, enabled bool) *MongoTransactor {
	return &MongoTransactor{client: client, enabled: enabled}
}

// WithTransaction runs fn in a session transaction, or directly when
// transactions are disabled.
func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return errs.Wrap(errs.EUNAVAILABLE, err, "start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
