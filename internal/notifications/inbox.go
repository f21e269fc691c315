package notifications

import (
	"context"

	"community-service/internal/models"
	"community-service/internal/repositories"
)

// ListLimit caps how many notifications the inbox returns.
const ListLimit = 50

// Inbox is the recipient-side view of notifications.
type Inbox struct {
	repo   repositories.NotificationRepository
	pusher Pusher
}

func NewInbox(repo repositories.NotificationRepository, pusher Pusher) *Inbox {
	return &Inbox{repo: repo, pusher: pusher}
}

// List returns the latest notifications together with the unread count.
func (i *Inbox) List(ctx context.Context, userID int) ([]models.Notification, int, error) {
	list, err := i.repo.ListForRecipient(ctx, userID, ListLimit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := i.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (i *Inbox) UnreadCount(ctx context.Context, userID int) (int, error) {
	return i.repo.CountUnread(ctx, userID)
}

// MarkAllRead marks everything read and tells open connections the unread
// count is now zero.
func (i *Inbox) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	updated, err := i.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if i.pusher != nil && updated > 0 {
		i.pusher.PushToUser(userID, models.NotificationEvent{Type: "read_all"})
	}
	return updated, nil
}
