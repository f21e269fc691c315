package notifications

import (
	"context"

	"community-service/internal/models"
	"community-service/internal/repositories"
)

// DisplayNames resolves the name shown in notification text.
type DisplayNames struct {
	users repositories.UserRepository
}

func NewDisplayNames(users repositories.UserRepository) *DisplayNames {
	return &DisplayNames{users: users}
}

// For returns the public display name for user, or the username when the
// user has no profile record or an empty display name.
func (d *DisplayNames) For(ctx context.Context, user models.User) string {
	info, err := d.users.GetUserInfoByUsername(ctx, user.Username)
	if err != nil {
		return user.Username
	}
	if info.DisplayName == "" {
		return user.Username
	}
	return info.DisplayName
}
