package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id SERIAL PRIMARY KEY,
        username VARCHAR(150) NOT NULL UNIQUE,
        email VARCHAR(254) NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS user_infos (
        id SERIAL PRIMARY KEY,
        username VARCHAR(30) NOT NULL UNIQUE,
        display_name VARCHAR(100) NOT NULL DEFAULT '',
        pronoun VARCHAR(50) NOT NULL DEFAULT '',
        email VARCHAR(254) NOT NULL DEFAULT '',
        bio TEXT NOT NULL DEFAULT '',
        join_date TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS profiles (
        user_id INT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
        role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'moderator', 'admin')),
        is_suspended BOOLEAN NOT NULL DEFAULT FALSE,
        suspension_reason TEXT NOT NULL DEFAULT '',
        suspended_at TIMESTAMPTZ,
        suspended_by INT REFERENCES users(id) ON DELETE SET NULL,
        reinstated_at TIMESTAMPTZ,
        reinstated_by INT REFERENCES users(id) ON DELETE SET NULL
    );`,
	`CREATE TABLE IF NOT EXISTS posts (
        id SERIAL PRIMARY KEY,
        user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        title VARCHAR(200) NOT NULL DEFAULT '',
        content TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ DEFAULT NOW(),
        is_removed BOOLEAN NOT NULL DEFAULT FALSE,
        removed_by INT REFERENCES users(id) ON DELETE SET NULL,
        removed_at TIMESTAMPTZ,
        removal_reason TEXT NOT NULL DEFAULT ''
    );`,
	`CREATE TABLE IF NOT EXISTS messages (
        id SERIAL PRIMARY KEY,
        chat_room_id INT,
        sender_id INT REFERENCES users(id) ON DELETE SET NULL,
        content TEXT NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW(),
        is_removed BOOLEAN NOT NULL DEFAULT FALSE,
        removed_by INT REFERENCES users(id) ON DELETE SET NULL,
        removed_at TIMESTAMPTZ,
        removal_reason TEXT NOT NULL DEFAULT ''
    );`,
	`CREATE TABLE IF NOT EXISTS friendships (
        id SERIAL PRIMARY KEY,
        user1_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        user2_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        created_at TIMESTAMPTZ DEFAULT NOW(),
        UNIQUE(user1_id, user2_id),
        CHECK (user1_id < user2_id)
    );`,
	`CREATE TABLE IF NOT EXISTS friend_requests (
        id SERIAL PRIMARY KEY,
        from_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        to_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        status VARCHAR(10) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
        created_at TIMESTAMPTZ DEFAULT NOW(),
        responded_at TIMESTAMPTZ
    );`,
	`CREATE UNIQUE INDEX IF NOT EXISTS friend_requests_one_pending
        ON friend_requests (from_user_id, to_user_id) WHERE status = 'pending';`,
	`CREATE TABLE IF NOT EXISTS flags (
        id SERIAL PRIMARY KEY,
        reporter_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        content_type VARCHAR(20) NOT NULL CHECK (content_type IN ('post', 'message', 'profile')),
        content_id INT NOT NULL,
        reason VARCHAR(20) NOT NULL DEFAULT 'other',
        description TEXT NOT NULL DEFAULT '',
        status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'reviewed', 'dismissed', 'actioned')),
        reviewed_by INT REFERENCES users(id) ON DELETE SET NULL,
        reviewed_at TIMESTAMPTZ,
        moderator_notes TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS flags_status_created ON flags (status, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS notifications (
        id SERIAL PRIMARY KEY,
        recipient_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        sender_id INT REFERENCES users(id) ON DELETE SET NULL,
        kind VARCHAR(20) NOT NULL,
        message VARCHAR(255) NOT NULL,
        is_read BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS notifications_recipient_created ON notifications (recipient_id, created_at DESC);`,
}

func runMigrations(db *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
