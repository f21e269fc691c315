package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

const notificationColumns = `id, recipient_id, sender_id, kind, message, is_read, created_at`

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListForRecipient(ctx context.Context, recipientID int, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID int) (int, error)
	MarkAllRead(ctx context.Context, recipientID int) (int64, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	var created models.Notification
	err := r.db.GetContext(ctx, &created, `INSERT INTO notifications (recipient_id, sender_id, kind, message)
        VALUES ($1, $2, $3, $4)
        RETURNING `+notificationColumns, n.RecipientID, n.SenderID, n.Kind, n.Message)
	return created, err
}

// ListForRecipient returns the newest notifications first.
func (r *NotificationRepo) ListForRecipient(ctx context.Context, recipientID int, limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.SelectContext(ctx, &list, `SELECT `+notificationColumns+` FROM notifications
        WHERE recipient_id=$1
        ORDER BY created_at DESC
        LIMIT $2`, recipientID, limit)
	return list, err
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND is_read = FALSE`, recipientID)
	return count, err
}

// MarkAllRead flips is_read on every unread notification and returns how many
// changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient_id=$1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
