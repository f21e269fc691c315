package moderation

import (
	"errors"

	"community-service/internal/models"
)

var (
	ErrNotModerator        = errors.New("moderation capability required")
	ErrContentNotFound     = errors.New("flagged content not found")
	ErrFlagNotFound        = errors.New("flag not found")
	ErrFlagAlreadyResolved = errors.New("flag already resolved")
	ErrReasonRequired      = errors.New("suspension reason is required")
)

func authorize(actor models.Actor) error {
	if !actor.Role.CanModerate() {
		return ErrNotModerator
	}
	return nil
}
