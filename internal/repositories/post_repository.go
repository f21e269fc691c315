package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

const postColumns = `id, user_id, title, content, created_at, is_removed, removed_by, removed_at, removal_reason`

// PostRepository defines the feed post operations moderation needs.
type PostRepository interface {
	GetPost(ctx context.Context, postID int) (models.Post, error)
	MarkRemoved(ctx context.Context, postID int, removal models.Removal) error
}

// PostRepo is a sqlx-backed repository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// GetPost retrieves a post, including removed ones.
func (r *PostRepo) GetPost(ctx context.Context, postID int) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post, `SELECT `+postColumns+` FROM posts WHERE id=$1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	return post, err
}

// MarkRemoved hides a post from the feed and records the removal.
func (r *PostRepo) MarkRemoved(ctx context.Context, postID int, removal models.Removal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE posts SET is_removed = TRUE, removed_by=$2, removed_at=$3, removal_reason=$4 WHERE id=$1`,
		postID, removal.ActorID, removal.At, removal.Reason)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}
