package domain

import (
	"context"
	"time"
)

// NotificationType classifies a notification.
type NotificationType string

// Known notification types. Anything else renders as "other".
const (
	NotifyLike    NotificationType = "like"
	NotifyComment NotificationType = "comment"
	NotifyFollow  NotificationType = "follow"
)

// Notification is a single entry of GET /notifications.
type Notification struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Type         NotificationType `json:"type"`
	FromUserID   string           `json:"from_user_id"`
	FromUsername string           `json:"from_username"`
	PostID       string           `json:"post_id,omitempty"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Describe returns the one-line activity text for the notification.
func (n Notification) Describe() string {
	switch n.Type {
	case NotifyLike:
		return "liked your post"
	case NotifyComment:
		return "commented on your post"
	case NotifyFollow:
		return "started following you"
	default:
		return "interacted with you"
	}
}

// NotificationAPI is the port for the remote notification endpoints.
type NotificationAPI interface {
	Notifications(ctx context.Context) ([]Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context) error
}
