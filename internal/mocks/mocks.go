package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"community-service/internal/models"
	"community-service/internal/repositories"
)

type FriendshipRepositoryMock struct {
	mock.Mock
}

func (m *FriendshipRepositoryMock) GetOrCreate(ctx context.Context, user1ID int, user2ID int) (models.Friendship, error) {
	args := m.Called(ctx, user1ID, user2ID)
	var friendship models.Friendship
	if val := args.Get(0); val != nil {
		friendship = val.(models.Friendship)
	}
	return friendship, args.Error(1)
}

func (m *FriendshipRepositoryMock) Exists(ctx context.Context, user1ID int, user2ID int) (bool, error) {
	args := m.Called(ctx, user1ID, user2ID)
	return args.Bool(0), args.Error(1)
}

func (m *FriendshipRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Friendship, error) {
	args := m.Called(ctx, userID)
	var list []models.Friendship
	if val := args.Get(0); val != nil {
		list = val.([]models.Friendship)
	}
	return list, args.Error(1)
}

func (m *FriendshipRepositoryMock) Delete(ctx context.Context, user1ID int, user2ID int) (bool, error) {
	args := m.Called(ctx, user1ID, user2ID)
	return args.Bool(0), args.Error(1)
}

type FriendRequestRepositoryMock struct {
	mock.Mock
}

func (m *FriendRequestRepositoryMock) Create(ctx context.Context, fromUserID int, toUserID int) (models.FriendRequest, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) FindPending(ctx context.Context, fromUserID int, toUserID int) (models.FriendRequest, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) GetForRecipient(ctx context.Context, requestID int, toUserID int) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, toUserID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) Respond(ctx context.Context, requestID int, status models.FriendRequestStatus, respondedAt time.Time) error {
	args := m.Called(ctx, requestID, status, respondedAt)
	return args.Error(0)
}

func (m *FriendRequestRepositoryMock) ListIncomingPending(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendRequest
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendRequest)
	}
	return list, args.Error(1)
}

func (m *FriendRequestRepositoryMock) ListOutgoingPending(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var list []models.FriendRequest
	if val := args.Get(0); val != nil {
		list = val.([]models.FriendRequest)
	}
	return list, args.Error(1)
}

type FlagRepositoryMock struct {
	mock.Mock
}

func (m *FlagRepositoryMock) Create(ctx context.Context, flag models.Flag) (models.Flag, error) {
	args := m.Called(ctx, flag)
	var created models.Flag
	if val := args.Get(0); val != nil {
		created = val.(models.Flag)
	}
	return created, args.Error(1)
}

func (m *FlagRepositoryMock) Get(ctx context.Context, flagID int) (models.Flag, error) {
	args := m.Called(ctx, flagID)
	var flag models.Flag
	if val := args.Get(0); val != nil {
		flag = val.(models.Flag)
	}
	return flag, args.Error(1)
}

func (m *FlagRepositoryMock) Resolve(ctx context.Context, flagID int, resolution models.FlagResolution, onlyPending bool) error {
	args := m.Called(ctx, flagID, resolution, onlyPending)
	return args.Error(0)
}

func (m *FlagRepositoryMock) ListByStatus(ctx context.Context, status models.FlagStatus) ([]models.Flag, error) {
	args := m.Called(ctx, status)
	var list []models.Flag
	if val := args.Get(0); val != nil {
		list = val.([]models.Flag)
	}
	return list, args.Error(1)
}

func (m *FlagRepositoryMock) ListRecentlyReviewed(ctx context.Context, limit int) ([]models.Flag, error) {
	args := m.Called(ctx, limit)
	var list []models.Flag
	if val := args.Get(0); val != nil {
		list = val.([]models.Flag)
	}
	return list, args.Error(1)
}

func (m *FlagRepositoryMock) CountReviewedSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) GetPost(ctx context.Context, postID int) (models.Post, error) {
	args := m.Called(ctx, postID)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) MarkRemoved(ctx context.Context, postID int, removal models.Removal) error {
	args := m.Called(ctx, postID, removal)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRemoved(ctx context.Context, messageID int, removal models.Removal) error {
	args := m.Called(ctx, messageID, removal)
	return args.Error(0)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserInfo(ctx context.Context, infoID int) (models.UserInfo, error) {
	args := m.Called(ctx, infoID)
	var info models.UserInfo
	if val := args.Get(0); val != nil {
		info = val.(models.UserInfo)
	}
	return info, args.Error(1)
}

func (m *UserRepositoryMock) GetUserInfoByUsername(ctx context.Context, username string) (models.UserInfo, error) {
	args := m.Called(ctx, username)
	var info models.UserInfo
	if val := args.Get(0); val != nil {
		info = val.(models.UserInfo)
	}
	return info, args.Error(1)
}

func (m *UserRepositoryMock) UpsertUserInfo(ctx context.Context, info models.UserInfo) (models.UserInfo, bool, error) {
	args := m.Called(ctx, info)
	var stored models.UserInfo
	if val := args.Get(0); val != nil {
		stored = val.(models.UserInfo)
	}
	return stored, args.Bool(1), args.Error(2)
}

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) Get(ctx context.Context, userID int) (models.Profile, error) {
	args := m.Called(ctx, userID)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) GetOrCreate(ctx context.Context, userID int) (models.Profile, error) {
	args := m.Called(ctx, userID)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) SetRole(ctx context.Context, userID int, role models.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) Suspend(ctx context.Context, userID int, actorID int, reason string, at time.Time) error {
	args := m.Called(ctx, userID, actorID, reason, at)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) Reinstate(ctx context.Context, userID int, actorID int, at time.Time) error {
	args := m.Called(ctx, userID, actorID, at)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) ListSuspended(ctx context.Context) ([]models.SuspendedProfile, error) {
	args := m.Called(ctx)
	var list []models.SuspendedProfile
	if val := args.Get(0); val != nil {
		list = val.([]models.SuspendedProfile)
	}
	return list, args.Error(1)
}

func (m *ProfileRepositoryMock) CountSuspended(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	args := m.Called(ctx, n)
	var created models.Notification
	if val := args.Get(0); val != nil {
		created = val.(models.Notification)
	}
	return created, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForRecipient(ctx context.Context, recipientID int, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) CountUnread(ctx context.Context, recipientID int) (int, error) {
	args := m.Called(ctx, recipientID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, recipientID int) (int64, error) {
	args := m.Called(ctx, recipientID)
	var updated int64
	if val := args.Get(0); val != nil {
		updated = val.(int64)
	}
	return updated, args.Error(1)
}

var (
	_ repositories.FriendshipRepository    = (*FriendshipRepositoryMock)(nil)
	_ repositories.FriendRequestRepository = (*FriendRequestRepositoryMock)(nil)
	_ repositories.FlagRepository          = (*FlagRepositoryMock)(nil)
	_ repositories.PostRepository          = (*PostRepositoryMock)(nil)
	_ repositories.MessageRepository       = (*MessageRepositoryMock)(nil)
	_ repositories.UserRepository          = (*UserRepositoryMock)(nil)
	_ repositories.ProfileRepository       = (*ProfileRepositoryMock)(nil)
	_ repositories.NotificationRepository  = (*NotificationRepositoryMock)(nil)
)
