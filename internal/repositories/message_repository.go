package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

const messageColumns = `id, chat_room_id, sender_id, content, created_at, is_removed, removed_by, removed_at, removal_reason`

// MessageRepository defines the chat message operations moderation needs.
type MessageRepository interface {
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	MarkRemoved(ctx context.Context, messageID int, removal models.Removal) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// GetMessage retrieves a single message, including removed ones.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// MarkRemoved soft-deletes a message and records who removed it.
func (r *MessageRepo) MarkRemoved(ctx context.Context, messageID int, removal models.Removal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_removed = TRUE, removed_by=$2, removed_at=$3, removal_reason=$4 WHERE id=$1`,
		messageID, removal.ActorID, removal.At, removal.Reason)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}
