package models

import "time"

// Friendship is a symmetric relation stored with User1ID < User2ID.
type Friendship struct {
	ID        int       `db:"id" json:"id"`
	User1ID   int       `db:"user1_id" json:"user1_id"`
	User2ID   int       `db:"user2_id" json:"user2_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CanonicalPair orders two user ids so the smaller comes first.
func CanonicalPair(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// Other returns the participant that is not userID.
func (f Friendship) Other(userID int) int {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}

// FriendRequestStatus is the state of a directed friend request.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a directed request from one user to another.
type FriendRequest struct {
	ID          int                 `db:"id" json:"id"`
	FromUserID  int                 `db:"from_user_id" json:"from_user_id"`
	ToUserID    int                 `db:"to_user_id" json:"to_user_id"`
	Status      FriendRequestStatus `db:"status" json:"status"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	RespondedAt *time.Time          `db:"responded_at" json:"responded_at,omitempty"`
}

// IsPending reports whether the request can still be answered.
func (r FriendRequest) IsPending() bool {
	return r.Status == FriendRequestPending
}
