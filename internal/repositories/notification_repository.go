package repositories

import (
	"context"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID string) ([]models.Notification, error)
	DeleteForRecipient(ctx context.Context, id uint, recipientID string) error
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return gormError(r.db.WithContext(ctx).Create(notification).Error, "Notification")
}

// GetByRecipientID returns the recipient's notifications, newest first
func (r *PostgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, gormError(err, "Notification")
	}
	return notifications, nil
}

// DeleteForRecipient deletes a notification only if it belongs to recipientID
func (r *PostgresNotificationRepository) DeleteForRecipient(ctx context.Context, id uint, recipientID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return gormError(res.Error, "Notification")
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Notification not found")
	}
	return nil
}
