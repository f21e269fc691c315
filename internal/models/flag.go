package models

import "time"

// ContentType tags what kind of object a flag points at.
type ContentType string

const (
	ContentPost    ContentType = "post"
	ContentMessage ContentType = "message"
	ContentProfile ContentType = "profile"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentPost, ContentMessage, ContentProfile:
		return true
	}
	return false
}

// FlagReason is the reporter's category for a flag.
type FlagReason string

const (
	FlagReasonSpam           FlagReason = "spam"
	FlagReasonHarassment     FlagReason = "harassment"
	FlagReasonInappropriate  FlagReason = "inappropriate"
	FlagReasonMisinformation FlagReason = "misinformation"
	FlagReasonOther          FlagReason = "other"
)

// FlagStatus is the review state of a flag.
type FlagStatus string

const (
	FlagPending   FlagStatus = "pending"
	FlagReviewed  FlagStatus = "reviewed"
	FlagDismissed FlagStatus = "dismissed"
	FlagActioned  FlagStatus = "actioned"
)

// Flag is a user report against a post, message or profile.
// ContentID is not a foreign key; it is resolved by ContentType at read time.
type Flag struct {
	ID             int         `db:"id" json:"id"`
	ReporterID     int         `db:"reporter_id" json:"reporter_id"`
	ContentType    ContentType `db:"content_type" json:"content_type"`
	ContentID      int         `db:"content_id" json:"content_id"`
	Reason         FlagReason  `db:"reason" json:"reason"`
	Description    string      `db:"description" json:"description"`
	Status         FlagStatus  `db:"status" json:"status"`
	ReviewedBy     *int        `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time  `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ModeratorNotes string      `db:"moderator_notes" json:"moderator_notes,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// IsPending reports whether no moderator has resolved the flag yet.
func (f Flag) IsPending() bool {
	return f.Status == FlagPending
}

// FlagResolution is the set of fields a moderator writes when closing a flag.
type FlagResolution struct {
	Status     FlagStatus
	ReviewerID int
	ReviewedAt time.Time
	Notes      string
}

// FlaggedContent is the resolved target of a flag. The variants are
// PostContent, MessageContent and ProfileContent.
type FlaggedContent interface {
	Type() ContentType
	// OwnerID returns the user responsible for the content, if known.
	OwnerID() (int, bool)
	flaggedContent()
}

type PostContent struct {
	Post Post `json:"post"`
}

func (PostContent) Type() ContentType      { return ContentPost }
func (c PostContent) OwnerID() (int, bool) { return c.Post.UserID, true }
func (PostContent) flaggedContent()        {}

type MessageContent struct {
	Message Message `json:"message"`
}

func (MessageContent) Type() ContentType { return ContentMessage }
func (c MessageContent) OwnerID() (int, bool) {
	if c.Message.SenderID == nil {
		return 0, false
	}
	return *c.Message.SenderID, true
}
func (MessageContent) flaggedContent() {}

// ProfileContent is a flagged public profile. Owner is nil when no account
// carries the profile's username.
type ProfileContent struct {
	Info  UserInfo `json:"info"`
	Owner *User    `json:"owner,omitempty"`
}

func (ProfileContent) Type() ContentType { return ContentProfile }
func (c ProfileContent) OwnerID() (int, bool) {
	if c.Owner == nil {
		return 0, false
	}
	return c.Owner.ID, true
}
func (ProfileContent) flaggedContent() {}
