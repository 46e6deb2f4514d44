package app

import (
	"context"

	"devsocial/internal/domain"
)

// NotificationsView holds the viewer's notifications.
type NotificationsView struct {
	viewState
	api   domain.NotificationAPI
	badge *BadgePoller
	items []domain.Notification
}

// NewNotificationsView creates an empty view. badge may be nil; when set it
// is reset after a successful mark-read.
func NewNotificationsView(api domain.NotificationAPI, badge *BadgePoller, opts ...ViewOption) *NotificationsView {
	n := &NotificationsView{api: api, badge: badge}
	n.init(opts)
	return n
}

// Load replaces the held notifications.
func (n *NotificationsView) Load(ctx context.Context) error {
	err := load(ctx, &n.viewState, n.api.Notifications, func(items []domain.Notification) {
		n.items = append([]domain.Notification(nil), items...)
	})
	if err != nil && err != domain.ErrViewClosed && !n.Closed() {
		n.log.Warn("failed to load notifications", "error", err)
		n.notify.Error(domain.UserMessage(err, "Failed to load notifications"))
	}
	return err
}

// MarkAllRead marks every notification read on the server and, on success,
// in the held copy. Failure is logged but not surfaced to the user.
func (n *NotificationsView) MarkAllRead(ctx context.Context) error {
	if err := n.acquire("mark-read"); err != nil {
		return err
	}
	defer n.release("mark-read")

	err := n.api.MarkRead(ctx)
	n.metrics.ObserveMutation("mark_read", err)
	if err != nil {
		n.log.Warn("failed to mark notifications read", "error", err)
		return err
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return domain.ErrViewClosed
	}
	for i := range n.items {
		n.items[i].Read = true
	}
	n.mu.Unlock()

	if n.badge != nil {
		n.badge.Reset()
	}
	return nil
}

// Open loads the notifications and marks them read, as when the
// notifications page is shown.
func (n *NotificationsView) Open(ctx context.Context) error {
	if err := n.Load(ctx); err != nil {
		return err
	}
	_ = n.MarkAllRead(ctx)
	return nil
}

// Items returns a copy of the held notifications.
func (n *NotificationsView) Items() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.items...)
}

// Unread counts held notifications not yet read.
func (n *NotificationsView) Unread() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, it := range n.items {
		if !it.Read {
			c++
		}
	}
	return c
}
