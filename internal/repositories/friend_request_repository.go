package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

var (
	ErrFriendRequestNotFound   = errors.New("friend request not found")
	ErrDuplicatePendingRequest = errors.New("pending friend request already exists")
	ErrRequestNotPending       = errors.New("friend request is not pending")
)

const friendRequestColumns = `id, from_user_id, to_user_id, status, created_at, responded_at`

// FriendRequestRepository abstracts friend request persistence.
type FriendRequestRepository interface {
	Create(ctx context.Context, fromUserID int, toUserID int) (models.FriendRequest, error)
	FindPending(ctx context.Context, fromUserID int, toUserID int) (models.FriendRequest, error)
	GetForRecipient(ctx context.Context, requestID int, toUserID int) (models.FriendRequest, error)
	Respond(ctx context.Context, requestID int, status models.FriendRequestStatus, respondedAt time.Time) error
	ListIncomingPending(ctx context.Context, userID int) ([]models.FriendRequest, error)
	ListOutgoingPending(ctx context.Context, userID int) ([]models.FriendRequest, error)
}

// FriendRequestRepo is a sqlx implementation of FriendRequestRepository.
type FriendRequestRepo struct {
	db *sqlx.DB
}

// NewFriendRequestRepo constructs a FriendRequestRepo.
func NewFriendRequestRepo(db *sqlx.DB) *FriendRequestRepo {
	return &FriendRequestRepo{db: db}
}

// Create stores a pending request. The partial unique index on pending rows
// turns a concurrent duplicate into ErrDuplicatePendingRequest.
func (r *FriendRequestRepo) Create(ctx context.Context, fromUserID int, toUserID int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `INSERT INTO friend_requests (from_user_id, to_user_id, status) VALUES ($1, $2, 'pending')
        RETURNING `+friendRequestColumns, fromUserID, toUserID)
	if isUniqueViolation(err) {
		return models.FriendRequest{}, ErrDuplicatePendingRequest
	}
	return req, err
}

// FindPending returns the pending request for the ordered pair.
func (r *FriendRequestRepo) FindPending(ctx context.Context, fromUserID int, toUserID int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+friendRequestColumns+` FROM friend_requests
        WHERE from_user_id=$1 AND to_user_id=$2 AND status='pending'`, fromUserID, toUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	return req, err
}

// GetForRecipient fetches a request addressed to toUserID. Requests addressed
// to anyone else are reported as not found.
func (r *FriendRequestRepo) GetForRecipient(ctx context.Context, requestID int, toUserID int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+friendRequestColumns+` FROM friend_requests WHERE id=$1 AND to_user_id=$2`, requestID, toUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	return req, err
}

// Respond moves a pending request to a terminal status. Only one caller can
// win the transition.
func (r *FriendRequestRepo) Respond(ctx context.Context, requestID int, status models.FriendRequestStatus, respondedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE friend_requests SET status=$2, responded_at=$3 WHERE id=$1 AND status='pending'`, requestID, status, respondedAt)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRequestNotPending
	}
	return nil
}

// ListIncomingPending returns pending requests addressed to the user.
func (r *FriendRequestRepo) ListIncomingPending(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs, `SELECT `+friendRequestColumns+` FROM friend_requests
        WHERE to_user_id=$1 AND status='pending' ORDER BY created_at DESC`, userID)
	return reqs, err
}

// ListOutgoingPending returns pending requests sent by the user.
func (r *FriendRequestRepo) ListOutgoingPending(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs, `SELECT `+friendRequestColumns+` FROM friend_requests
        WHERE from_user_id=$1 AND status='pending' ORDER BY created_at DESC`, userID)
	return reqs, err
}
