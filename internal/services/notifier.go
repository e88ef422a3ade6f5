// Package services holds the mutations on the social graph and the read
// paths that resolve stored references into views.
package services

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationRefs are the optional entities a notification points at.
type NotificationRefs struct {
	PostID    *primitive.ObjectID
	CommentID *primitive.ObjectID
}

// Notifier records notifications produced by mutations. It does not check
// actor and recipient; callers skip self-actions before calling Notify.
type Notifier struct {
	notifications repositories.NotificationRepository
}

// NewNotifier creates a new Notifier
func NewNotifier(notifications repositories.NotificationRepository) *Notifier {
	return &Notifier{notifications: notifications}
}

// Notify stores one notification from actorID to recipientID.
func (n *Notifier) Notify(ctx context.Context, actorID, recipientID primitive.ObjectID, typ models.NotificationType, refs NotificationRefs) error {
	notification := &models.Notification{
		Type:        typ,
		ActorID:     actorID.Hex(),
		RecipientID: recipientID.Hex(),
		PostID:      hexRef(refs.PostID),
		CommentID:   hexRef(refs.CommentID),
	}
	return n.notifications.CreateNotification(ctx, notification)
}

// notifyBestEffort calls Notify and logs a failure instead of returning it.
// The mutation that triggered the notification has already been applied.
func notifyBestEffort(ctx context.Context, n *Notifier, actorID, recipientID primitive.ObjectID, typ models.NotificationType, refs NotificationRefs) {
	if err := n.Notify(ctx, actorID, recipientID, typ, refs); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("type", string(typ)).
			Str("actor", actorID.Hex()).
			Str("recipient", recipientID.Hex()).
			Msg("notification not recorded")
	}
}

func hexRef(id *primitive.ObjectID) *string {
	if id == nil {
		return nil
	}
	s := id.Hex()
	return &s
}
