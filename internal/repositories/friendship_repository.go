package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

// FriendshipRepository abstracts friendship persistence. Callers pass pairs
// already ordered with models.CanonicalPair.
type FriendshipRepository interface {
	GetOrCreate(ctx context.Context, user1ID int, user2ID int) (models.Friendship, error)
	Exists(ctx context.Context, user1ID int, user2ID int) (bool, error)
	ListForUser(ctx context.Context, userID int) ([]models.Friendship, error)
	Delete(ctx context.Context, user1ID int, user2ID int) (bool, error)
}

// FriendshipRepo is a sqlx implementation of FriendshipRepository.
type FriendshipRepo struct {
	db *sqlx.DB
}

// NewFriendshipRepo constructs a FriendshipRepo.
func NewFriendshipRepo(db *sqlx.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

// GetOrCreate inserts the pair or returns the existing row. The insert relies
// on UNIQUE(user1_id, user2_id) so concurrent callers converge on one row.
func (r *FriendshipRepo) GetOrCreate(ctx context.Context, user1ID int, user2ID int) (models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.GetContext(ctx, &friendship, `INSERT INTO friendships (user1_id, user2_id) VALUES ($1, $2)
        ON CONFLICT (user1_id, user2_id) DO NOTHING
        RETURNING id, user1_id, user2_id, created_at`, user1ID, user2ID)
	if err == nil {
		return friendship, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, err
	}

	err = r.db.GetContext(ctx, &friendship, `SELECT id, user1_id, user2_id, created_at FROM friendships WHERE user1_id=$1 AND user2_id=$2`, user1ID, user2ID)
	return friendship, err
}

// Exists checks whether the pair is stored.
func (r *FriendshipRepo) Exists(ctx context.Context, user1ID int, user2ID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM friendships WHERE user1_id=$1 AND user2_id=$2)`, user1ID, user2ID)
	return exists, err
}

// ListForUser returns every friendship the user takes part in.
func (r *FriendshipRepo) ListForUser(ctx context.Context, userID int) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.SelectContext(ctx, &friendships, `SELECT id, user1_id, user2_id, created_at FROM friendships
        WHERE user1_id=$1 OR user2_id=$1
        ORDER BY created_at DESC`, userID)
	return friendships, err
}

// Delete removes the pair and reports whether a row existed.
func (r *FriendshipRepo) Delete(ctx context.Context, user1ID int, user2ID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE user1_id=$1 AND user2_id=$2`, user1ID, user2ID)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
