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
	ErrFlagNotFound   = errors.New("flag not found")
	ErrFlagNotPending = errors.New("flag is not pending")
)

const flagColumns = `id, reporter_id, content_type, content_id, reason, description, status, reviewed_by, reviewed_at, moderator_notes, created_at`

// FlagRepository abstracts flag persistence. Flags are never deleted.
type FlagRepository interface {
	Create(ctx context.Context, flag models.Flag) (models.Flag, error)
	Get(ctx context.Context, flagID int) (models.Flag, error)
	Resolve(ctx context.Context, flagID int, resolution models.FlagResolution, onlyPending bool) error
	ListByStatus(ctx context.Context, status models.FlagStatus) ([]models.Flag, error)
	ListRecentlyReviewed(ctx context.Context, limit int) ([]models.Flag, error)
	CountReviewedSince(ctx context.Context, since time.Time) (int, error)
}

// FlagRepo is a sqlx implementation of FlagRepository.
type FlagRepo struct {
	db *sqlx.DB
}

// NewFlagRepo constructs a FlagRepo.
func NewFlagRepo(db *sqlx.DB) *FlagRepo {
	return &FlagRepo{db: db}
}

// Create stores a new flag in pending state.
func (r *FlagRepo) Create(ctx context.Context, flag models.Flag) (models.Flag, error) {
	var created models.Flag
	err := r.db.GetContext(ctx, &created, `INSERT INTO flags (reporter_id, content_type, content_id, reason, description, status)
        VALUES ($1, $2, $3, $4, $5, 'pending')
        RETURNING `+flagColumns, flag.ReporterID, flag.ContentType, flag.ContentID, flag.Reason, flag.Description)
	return created, err
}

// Get fetches a flag by id.
func (r *FlagRepo) Get(ctx context.Context, flagID int) (models.Flag, error) {
	var flag models.Flag
	err := r.db.GetContext(ctx, &flag, `SELECT `+flagColumns+` FROM flags WHERE id=$1`, flagID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Flag{}, ErrFlagNotFound
	}
	return flag, err
}

// Resolve writes the review fields. With onlyPending the update only applies
// to pending flags and a resolved flag yields ErrFlagNotPending.
func (r *FlagRepo) Resolve(ctx context.Context, flagID int, resolution models.FlagResolution, onlyPending bool) error {
	query := `UPDATE flags SET status=$2, reviewed_by=$3, reviewed_at=$4, moderator_notes=$5 WHERE id=$1`
	if onlyPending {
		query += ` AND status='pending'`
	}
	res, err := r.db.ExecContext(ctx, query, flagID, resolution.Status, resolution.ReviewerID, resolution.ReviewedAt, resolution.Notes)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if !onlyPending {
		return ErrFlagNotFound
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM flags WHERE id=$1)`, flagID); err != nil {
		return err
	}
	if !exists {
		return ErrFlagNotFound
	}
	return ErrFlagNotPending
}

// ListByStatus returns flags in the given status, newest first.
func (r *FlagRepo) ListByStatus(ctx context.Context, status models.FlagStatus) ([]models.Flag, error) {
	var flags []models.Flag
	err := r.db.SelectContext(ctx, &flags, `SELECT `+flagColumns+` FROM flags WHERE status=$1 ORDER BY created_at DESC`, status)
	return flags, err
}

// ListRecentlyReviewed returns the most recently reviewed flags.
func (r *FlagRepo) ListRecentlyReviewed(ctx context.Context, limit int) ([]models.Flag, error) {
	var flags []models.Flag
	err := r.db.SelectContext(ctx, &flags, `SELECT `+flagColumns+` FROM flags
        WHERE status <> 'pending' AND reviewed_at IS NOT NULL
        ORDER BY reviewed_at DESC
        LIMIT $1`, limit)
	return flags, err
}

// CountReviewedSince counts flags reviewed at or after since.
func (r *FlagRepo) CountReviewedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM flags WHERE reviewed_at >= $1`, since)
	return count, err
}
