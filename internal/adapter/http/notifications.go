package adapthttp

import (
	"context"
	"net/http"

	"devsocial/internal/domain"
)

// Notifications lists the viewer's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	var out []domain.Notification
	err := c.do(ctx, "notifications.list", http.MethodGet, []string{"notifications"}, nil, nil, &out)
	return out, err
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, "notifications.unread_count", http.MethodGet, []string{"notifications", "unread-count"}, nil, nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

// MarkRead marks every notification of the viewer as read.
func (c *Client) MarkRead(ctx context.Context) error {
	return c.do(ctx, "notifications.mark_read", http.MethodPost, []string{"notifications", "mark-read"}, nil, nil, nil)
}
