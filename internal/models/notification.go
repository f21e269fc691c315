package models

import "time"

// NotificationKind is the closed set of notification types.
type NotificationKind string

const (
	NotificationFriendRequest     NotificationKind = "friend_request"
	NotificationFriendAccept      NotificationKind = "friend_accept"
	NotificationFriendRemoved     NotificationKind = "friend_removed"
	NotificationPostLike          NotificationKind = "post_like"
	NotificationNewMessage        NotificationKind = "new_message"
	NotificationPostRemoved       NotificationKind = "post_removed"
	NotificationMessageRemoved    NotificationKind = "message_removed"
	NotificationAccountSuspended  NotificationKind = "account_suspended"
	NotificationAccountReinstated NotificationKind = "account_reinstated"
)

// Notification is an in-app message to a recipient. Message is rendered at
// creation time and never recomputed.
type Notification struct {
	ID          int              `db:"id" json:"id"`
	RecipientID int              `db:"recipient_id" json:"recipient_id"`
	SenderID    *int             `db:"sender_id" json:"sender_id,omitempty"`
	Kind        NotificationKind `db:"kind" json:"kind"`
	Message     string           `db:"message" json:"message"`
	IsRead      bool             `db:"is_read" json:"is_read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// NotificationEvent is pushed over websocket connections.
type NotificationEvent struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
	UnreadCount  int           `json:"unread_count"`
}
