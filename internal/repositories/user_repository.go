package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserInfoNotFound = errors.New("user info not found")
)

const userInfoColumns = `id, username, display_name, pronoun, email, bio, join_date`

// UserRepository reads accounts and their public profile records.
type UserRepository interface {
	GetUser(ctx context.Context, userID int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserInfo(ctx context.Context, infoID int) (models.UserInfo, error)
	GetUserInfoByUsername(ctx context.Context, username string) (models.UserInfo, error)
	UpsertUserInfo(ctx context.Context, info models.UserInfo) (models.UserInfo, bool, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, email, created_at FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, email, created_at FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepo) GetUserInfo(ctx context.Context, infoID int) (models.UserInfo, error) {
	var info models.UserInfo
	err := r.db.GetContext(ctx, &info, `SELECT `+userInfoColumns+` FROM user_infos WHERE id=$1`, infoID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserInfo{}, ErrUserInfoNotFound
	}
	return info, err
}

func (r *UserRepo) GetUserInfoByUsername(ctx context.Context, username string) (models.UserInfo, error) {
	var info models.UserInfo
	err := r.db.GetContext(ctx, &info, `SELECT `+userInfoColumns+` FROM user_infos WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserInfo{}, ErrUserInfoNotFound
	}
	return info, err
}

// UpsertUserInfo creates the record for info.Username or overwrites the
// stored fields with the non-empty ones in info. The bool reports whether a
// new row was inserted.
func (r *UserRepo) UpsertUserInfo(ctx context.Context, info models.UserInfo) (models.UserInfo, bool, error) {
	var row struct {
		models.UserInfo
		Inserted bool `db:"inserted"`
	}
	err := r.db.GetContext(ctx, &row, `INSERT INTO user_infos (username, display_name, pronoun, email, bio)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (username) DO UPDATE SET
            display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), user_infos.display_name),
            pronoun = COALESCE(NULLIF(EXCLUDED.pronoun, ''), user_infos.pronoun),
            email = COALESCE(NULLIF(EXCLUDED.email, ''), user_infos.email),
            bio = COALESCE(NULLIF(EXCLUDED.bio, ''), user_infos.bio)
        RETURNING `+userInfoColumns+`, (xmax = 0) AS inserted`,
		info.Username, info.DisplayName, info.Pronoun, info.Email, info.Bio)
	if err != nil {
		return models.UserInfo{}, false, err
	}
	return row.UserInfo, row.Inserted, nil
}
