package models

import "time"

// NotificationType is the mutation that produced a notification.
type NotificationType string

const (
	NotificationComment NotificationType = "comment"
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
)

// Notification represents a user notification (PostgreSQL). User, post and
// comment references are MongoDB ObjectID hex strings.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Type        NotificationType `json:"type" gorm:"size:20;index"`
	ActorID     string           `json:"from" gorm:"size:24;not null;index"`
	RecipientID string           `json:"to" gorm:"size:24;not null;index"`
	PostID      *string          `json:"post,omitempty" gorm:"size:24"`
	CommentID   *string          `json:"comment,omitempty" gorm:"size:24"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

// PostPreview is the part of a post shown inside a notification.
type PostPreview struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// CommentPreview is the part of a comment shown inside a notification.
type CommentPreview struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// NotificationView is a notification with its references resolved. A
// reference whose record no longer exists is null.
type NotificationView struct {
	ID        uint             `json:"id"`
	Type      NotificationType `json:"type"`
	From      *UserCompact     `json:"from"`
	Post      *PostPreview     `json:"post"`
	Comment   *CommentPreview  `json:"comment"`
	CreatedAt time.Time        `json:"created_at"`
}
