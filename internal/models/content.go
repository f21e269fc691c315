package models

import "time"

// Post is user-authored feed content. Removed posts stay in the table for audit.
type Post struct {
	ID            int        `db:"id" json:"id"`
	UserID        int        `db:"user_id" json:"user_id"`
	Title         string     `db:"title" json:"title"`
	Content       string     `db:"content" json:"content"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	IsRemoved     bool       `db:"is_removed" json:"is_removed"`
	RemovedBy     *int       `db:"removed_by" json:"removed_by,omitempty"`
	RemovedAt     *time.Time `db:"removed_at" json:"removed_at,omitempty"`
	RemovalReason string     `db:"removal_reason" json:"removal_reason,omitempty"`
}

// Message is a chat room message. A nil SenderID marks a system message.
type Message struct {
	ID            int        `db:"id" json:"id"`
	ChatRoomID    *int       `db:"chat_room_id" json:"chat_room_id,omitempty"`
	SenderID      *int       `db:"sender_id" json:"sender_id,omitempty"`
	Content       string     `db:"content" json:"content"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	IsRemoved     bool       `db:"is_removed" json:"is_removed"`
	RemovedBy     *int       `db:"removed_by" json:"removed_by,omitempty"`
	RemovedAt     *time.Time `db:"removed_at" json:"removed_at,omitempty"`
	RemovalReason string     `db:"removal_reason" json:"removal_reason,omitempty"`
}

// Removal carries the audit fields written when content is taken down.
type Removal struct {
	ActorID int
	At      time.Time
	Reason  string
}

// ApplyRemoval sets the removal fields on p.
func (p *Post) ApplyRemoval(r Removal) {
	actorID, at := r.ActorID, r.At
	p.IsRemoved = true
	p.RemovedBy = &actorID
	p.RemovedAt = &at
	p.RemovalReason = r.Reason
}

// ApplyRemoval sets the removal fields on m.
func (m *Message) ApplyRemoval(r Removal) {
	actorID, at := r.ActorID, r.At
	m.IsRemoved = true
	m.RemovedBy = &actorID
	m.RemovedAt = &at
	m.RemovalReason = r.Reason
}
