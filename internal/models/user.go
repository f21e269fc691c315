package models

import "time"

// Role is the permission tier stored on a profile.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role carries moderation capability.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// User is an authenticated account.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Profile holds the role and suspension state of a user.
type Profile struct {
	UserID           int        `db:"user_id" json:"user_id"`
	Role             Role       `db:"role" json:"role"`
	IsSuspended      bool       `db:"is_suspended" json:"is_suspended"`
	SuspensionReason string     `db:"suspension_reason" json:"suspension_reason,omitempty"`
	SuspendedAt      *time.Time `db:"suspended_at" json:"suspended_at,omitempty"`
	SuspendedBy      *int       `db:"suspended_by" json:"suspended_by,omitempty"`
	ReinstatedAt     *time.Time `db:"reinstated_at" json:"reinstated_at,omitempty"`
	ReinstatedBy     *int       `db:"reinstated_by" json:"reinstated_by,omitempty"`
}

// SuspendedProfile joins a suspended profile with its username for listings.
type SuspendedProfile struct {
	Profile
	Username string `db:"username" json:"username"`
}

// UserInfo is the public profile record, keyed by username.
type UserInfo struct {
	ID          int       `db:"id" json:"-"`
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Pronoun     string    `db:"pronoun" json:"pronoun"`
	Email       string    `db:"email" json:"email"`
	Bio         string    `db:"bio" json:"bio"`
	JoinDate    time.Time `db:"join_date" json:"join_date"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   int
	Role Role
}
