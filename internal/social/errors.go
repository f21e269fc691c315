package social

import (
	"errors"

	"community-service/internal/models"
)

var (
	ErrSelfRequest           = errors.New("cannot send request to yourself")
	ErrAlreadyFriends        = errors.New("already friends")
	ErrRequestAlreadySent    = errors.New("friend request already sent")
	ErrAlreadyProcessed      = errors.New("request already processed")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrNotFriends            = errors.New("not friends")
)

// ReversePendingError is returned by Send when the recipient has already
// asked the sender. Request is the pending request the sender should answer.
type ReversePendingError struct {
	Request models.FriendRequest
}

func (e *ReversePendingError) Error() string {
	return "a friend request from the other user is already pending"
}
