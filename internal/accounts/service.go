package accounts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"community-service/internal/models"
	"community-service/internal/repositories"
	"community-service/internal/validation"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileNotOwned = errors.New("profile belongs to another user")
)

// ProfileInput is the body of a profile upsert. Empty fields leave the stored
// value untouched.
type ProfileInput struct {
	Username    string `json:"username" validate:"required,max=30,username"`
	DisplayName string `json:"display_name" validate:"max=100"`
	Pronoun     string `json:"pronoun" validate:"max=50"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Bio         string `json:"bio" validate:"max=1000"`
}

// Service manages account roles and public profiles.
type Service struct {
	users       repositories.UserRepository
	profiles    repositories.ProfileRepository
	validate    *validation.Validator
	adminEmails map[string]struct{}
}

func NewService(users repositories.UserRepository, profiles repositories.ProfileRepository, validate *validation.Validator, adminEmails []string) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &Service{users: users, profiles: profiles, validate: validate, adminEmails: admins}
}

// Resolve loads the account and its profile for an authenticated user id.
// It never writes. A user without a profile row gets the default profile.
func (s *Service) Resolve(ctx context.Context, userID int) (models.User, models.Profile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, models.Profile{}, err
	}
	profile, err := s.profiles.Get(ctx, user.ID)
	if err != nil {
		return models.User{}, models.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return user, profile, nil
}

// EnsureRole creates the user's profile if needed and promotes allowlisted
// emails to admin. Calling it repeatedly has no further effect.
func (s *Service) EnsureRole(ctx context.Context, user models.User) (models.Profile, error) {
	profile, err := s.profiles.GetOrCreate(ctx, user.ID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if !s.isAdminEmail(user.Email) || profile.Role == models.RoleAdmin {
		return profile, nil
	}

	if err := s.profiles.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return models.Profile{}, fmt.Errorf("promote admin: %w", err)
	}
	log.Printf("accounts: promoted user_id=%d to admin", user.ID)
	profile.Role = models.RoleAdmin
	return profile, nil
}

func (s *Service) isAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	_, ok := s.adminEmails[strings.ToLower(email)]
	return ok
}

// UpsertProfile creates or updates the caller's public profile. The bool
// reports whether the record was created.
func (s *Service) UpsertProfile(ctx context.Context, actor models.User, in ProfileInput) (models.UserInfo, bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.UserInfo{}, false, err
	}
	if in.Username != actor.Username {
		return models.UserInfo{}, false, ErrProfileNotOwned
	}

	info, created, err := s.users.UpsertUserInfo(ctx, models.UserInfo{
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Pronoun:     in.Pronoun,
		Email:       in.Email,
		Bio:         in.Bio,
	})
	if err != nil {
		return models.UserInfo{}, false, fmt.Errorf("upsert profile: %w", err)
	}

	if _, err := s.EnsureRole(ctx, actor); err != nil {
		log.Printf("accounts: ensure role failed user_id=%d err=%v", actor.ID, err)
	}
	return info, created, nil
}

// PublicProfile returns the public fields for username.
func (s *Service) PublicProfile(ctx context.Context, username string) (models.UserInfo, error) {
	info, err := s.users.GetUserInfoByUsername(ctx, username)
	if errors.Is(err, repositories.ErrUserInfoNotFound) {
		return models.UserInfo{}, ErrProfileNotFound
	}
	return info, err
}
