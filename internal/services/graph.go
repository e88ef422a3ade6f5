package services

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowResult is the follow state after a toggle.
type FollowResult struct {
	Following bool `json:"following"`
}

// GraphService applies follow edges. An edge is stored on both users: the
// actor's following set and the target's followers set.
type GraphService struct {
	users    repositories.UserRepository
	tx       repositories.Transactor
	notifier *Notifier
}

// NewGraphService creates a new GraphService
func NewGraphService(users repositories.UserRepository, tx repositories.Transactor, notifier *Notifier) *GraphService {
	return &GraphService{users: users, tx: tx, notifier: notifier}
}

// ToggleFollow follows targetID if the actor does not follow it yet and
// unfollows it otherwise. Only a follow that changed the actor's set notifies
// the target.
//
// Without transactions the actor's side is written first. If the second
// write fails the edge is one-sided until the next toggle, which repairs it
// because both set operations are idempotent.
func (s *GraphService) ToggleFollow(ctx context.Context, actorID, targetID primitive.ObjectID) (*FollowResult, error) {
	if actorID == targetID {
		return nil, errs.Errorf(errs.EINVALID, "You cannot follow yourself")
	}

	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}

	if actor.IsFollowing(targetID) {
		err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if _, err := s.users.RemoveFollowing(ctx, actorID, targetID); err != nil {
				return err
			}
			_, err := s.users.RemoveFollower(ctx, targetID, actorID)
			return err
		})
		if err != nil {
			return nil, err
		}
		return &FollowResult{Following: false}, nil
	}

	var changed bool
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if changed, err = s.users.AddFollowing(ctx, actorID, targetID); err != nil {
			return err
		}
		_, err = s.users.AddFollower(ctx, targetID, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		notifyBestEffort(ctx, s.notifier, actorID, targetID, models.NotificationFollow, NotificationRefs{})
	}
	return &FollowResult{Following: true}, nil
}
