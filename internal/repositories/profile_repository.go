package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

const profileColumns = `user_id, role, is_suspended, suspension_reason, suspended_at, suspended_by, reinstated_at, reinstated_by`

// ProfileRepository stores role and suspension state. Every write creates the
// profile row when it is missing. Reads never do.
type ProfileRepository interface {
	Get(ctx context.Context, userID int) (models.Profile, error)
	GetOrCreate(ctx context.Context, userID int) (models.Profile, error)
	SetRole(ctx context.Context, userID int, role models.Role) error
	Suspend(ctx context.Context, userID int, actorID int, reason string, at time.Time) error
	Reinstate(ctx context.Context, userID int, actorID int, at time.Time) error
	ListSuspended(ctx context.Context) ([]models.SuspendedProfile, error)
	CountSuspended(ctx context.Context) (int, error)
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Get returns the stored profile, or the default profile when userID has no
// row yet.
func (r *ProfileRepo) Get(ctx context.Context, userID int) (models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM profiles WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{UserID: userID, Role: models.RoleUser}, nil
	}
	return profile, err
}

// GetOrCreate returns the profile for userID, inserting a default row first
// if needed.
func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID int) (models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `INSERT INTO profiles (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING `+profileColumns, userID)
	return profile, err
}

func (r *ProfileRepo) SetRole(ctx context.Context, userID int, role models.Role) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (user_id, role) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`, userID, role)
	return err
}

// Suspend marks the user suspended. A repeat suspension overwrites the
// previous reason, actor and timestamp.
func (r *ProfileRepo) Suspend(ctx context.Context, userID int, actorID int, reason string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (user_id, is_suspended, suspension_reason, suspended_at, suspended_by)
        VALUES ($1, TRUE, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE SET
            is_suspended = TRUE,
            suspension_reason = EXCLUDED.suspension_reason,
            suspended_at = EXCLUDED.suspended_at,
            suspended_by = EXCLUDED.suspended_by`, userID, reason, at, actorID)
	return err
}

// Reinstate clears the suspension flag. The suspension fields are kept for
// audit.
func (r *ProfileRepo) Reinstate(ctx context.Context, userID int, actorID int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (user_id, is_suspended, reinstated_at, reinstated_by)
        VALUES ($1, FALSE, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET
            is_suspended = FALSE,
            reinstated_at = EXCLUDED.reinstated_at,
            reinstated_by = EXCLUDED.reinstated_by`, userID, at, actorID)
	return err
}

// ListSuspended returns suspended profiles, most recent suspension first.
func (r *ProfileRepo) ListSuspended(ctx context.Context) ([]models.SuspendedProfile, error) {
	var profiles []models.SuspendedProfile
	err := r.db.SelectContext(ctx, &profiles, `SELECT p.user_id, p.role, p.is_suspended, p.suspension_reason, p.suspended_at,
            p.suspended_by, p.reinstated_at, p.reinstated_by, u.username
        FROM profiles p
        JOIN users u ON u.id = p.user_id
        WHERE p.is_suspended = TRUE
        ORDER BY p.suspended_at DESC`)
	return profiles, err
}

func (r *ProfileRepo) CountSuspended(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles WHERE is_suspended = TRUE`)
	return count, err
}
