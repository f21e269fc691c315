package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"community-service/internal/config"
	"community-service/internal/mocks"
	"community-service/internal/models"
	"community-service/internal/repositories"
	"community-service/internal/telemetry"
	"community-service/internal/validation"
)

var (
	moderator = models.Actor{ID: 50, Role: models.RoleModerator}
	admin     = models.Actor{ID: 51, Role: models.RoleAdmin}
	member    = models.Actor{ID: 7, Role: models.RoleUser}
	fixedNow  = time.Date(2024, 6, 2, 15, 30, 0, 0, time.UTC)
)

type flagsFixture struct {
	flagRepo *mocks.FlagRepositoryMock
	posts    *mocks.PostRepositoryMock
	messages *mocks.MessageRepositoryMock
	users    *mocks.UserRepositoryMock
	profiles *mocks.ProfileRepositoryMock
	flags    *Flags
}

func newFlagsFixture(policy config.FlagResolutionPolicy) *flagsFixture {
	f := &flagsFixture{
		flagRepo: new(mocks.FlagRepositoryMock),
		posts:    new(mocks.PostRepositoryMock),
		messages: new(mocks.MessageRepositoryMock),
		users:    new(mocks.UserRepositoryMock),
		profiles: new(mocks.ProfileRepositoryMock),
	}
	f.flags = NewFlags(f.flagRepo, f.posts, f.messages, f.users, f.profiles, validation.New(), nil, policy)
	f.flags.now = func() time.Time { return fixedNow }
	return f
}

func TestFileDefaultsReason(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)
	f.flagRepo.On("Create", mock.Anything, models.Flag{ReporterID: 7, ContentType: models.ContentPost, ContentID: 3, Reason: models.FlagReasonOther}).
		Return(models.Flag{ID: 1, ReporterID: 7, ContentType: models.ContentPost, ContentID: 3, Reason: models.FlagReasonOther, Status: models.FlagPending}, nil)

	flag, err := f.flags.File(context.Background(), 7, FileInput{ContentType: models.ContentPost, ContentID: 3})
	require.NoError(t, err)
	assert.True(t, flag.IsPending())
	f.flagRepo.AssertExpectations(t)
}

func TestFileDoesNotCheckTargetExists(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)
	f.flagRepo.On("Create", mock.Anything, mock.Anything).Return(models.Flag{ID: 2}, nil)

	_, err := f.flags.File(context.Background(), 7, FileInput{ContentType: models.ContentMessage, ContentID: 99999, Reason: models.FlagReasonSpam})
	require.NoError(t, err)
	f.messages.AssertNotCalled(t, "GetMessage", mock.Anything, mock.Anything)
}

func TestFileRejectsInvalidInput(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)

	_, err := f.flags.File(context.Background(), 7, FileInput{ContentType: "video", ContentID: 0, Reason: "boring"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 3)
	f.flagRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveContentVariants(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)
	ctx := context.Background()
	sender := 12

	f.posts.On("GetPost", mock.Anything, 1).Return(models.Post{ID: 1, UserID: 9}, nil)
	f.posts.On("GetPost", mock.Anything, 2).Return(nil, repositories.ErrPostNotFound)
	f.messages.On("GetMessage", mock.Anything, 3).Return(models.Message{ID: 3, SenderID: &sender}, nil)
	f.messages.On("GetMessage", mock.Anything, 4).Return(models.Message{ID: 4}, nil)
	f.users.On("GetUserInfo", mock.Anything, 5).Return(models.UserInfo{ID: 5, Username: "ana"}, nil)
	f.users.On("GetUserByUsername", mock.Anything, "ana").Return(models.User{ID: 21, Username: "ana"}, nil)
	f.users.On("GetUserInfo", mock.Anything, 6).Return(models.UserInfo{ID: 6, Username: "ghost"}, nil)
	f.users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound)
	f.users.On("GetUserInfo", mock.Anything, 7).Return(nil, repositories.ErrUserInfoNotFound)

	tests := []struct {
		name    string
		flag    models.Flag
		kind    models.ContentType
		owner   int
		hasUser bool
		err     error
	}{
		{name: "post", flag: models.Flag{ContentType: models.ContentPost, ContentID: 1}, kind: models.ContentPost, owner: 9, hasUser: true},
		{name: "missing post", flag: models.Flag{ContentType: models.ContentPost, ContentID: 2}, err: ErrContentNotFound},
		{name: "message", flag: models.Flag{ContentType: models.ContentMessage, ContentID: 3}, kind: models.ContentMessage, owner: 12, hasUser: true},
		{name: "system message", flag: models.Flag{ContentType: models.ContentMessage, ContentID: 4}, kind: models.ContentMessage},
		{name: "profile", flag: models.Flag{ContentType: models.ContentProfile, ContentID: 5}, kind: models.ContentProfile, owner: 21, hasUser: true},
		{name: "orphan profile", flag: models.Flag{ContentType: models.ContentProfile, ContentID: 6}, kind: models.ContentProfile},
		{name: "missing profile", flag: models.Flag{ContentType: models.ContentProfile, ContentID: 7}, err: ErrContentNotFound},
		{name: "unknown type", flag: models.Flag{ContentType: "video", ContentID: 1}, err: ErrContentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := f.flags.ResolveContent(ctx, tt.flag)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, content.Type())
			owner, ok := content.OwnerID()
			assert.Equal(t, tt.hasUser, ok)
			assert.Equal(t, tt.owner, owner)

			gotOwner, gotOK := f.flags.FlaggedUserID(ctx, tt.flag)
			assert.Equal(t, ok, gotOK)
			assert.Equal(t, owner, gotOwner)
		})
	}
}

func TestDismissRequiresModerator(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)

	err := f.flags.Dismiss(context.Background(), 1, member, "")
	assert.ErrorIs(t, err, ErrNotModerator)
	f.flagRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDismissDefaultsNotesAndOverwrites(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)
	f.flagRepo.On("Resolve", mock.Anything, 1, models.FlagResolution{
		Status:     models.FlagDismissed,
		ReviewerID: 51,
		ReviewedAt: fixedNow,
		Notes:      "No violation found",
	}, false).Return(nil)

	require.NoError(t, f.flags.Dismiss(context.Background(), 1, admin, ""))
	f.flagRepo.AssertExpectations(t)
}

func TestDismissUnderRejectPolicy(t *testing.T) {
	f := newFlagsFixture(config.PolicyReject)
	f.flagRepo.On("Resolve", mock.Anything, 1, mock.Anything, true).Return(repositories.ErrFlagNotPending)
	f.flagRepo.On("Resolve", mock.Anything, 2, mock.Anything, true).Return(repositories.ErrFlagNotFound)

	assert.ErrorIs(t, f.flags.Dismiss(context.Background(), 1, moderator, "dup"), ErrFlagAlreadyResolved)
	assert.ErrorIs(t, f.flags.Dismiss(context.Background(), 2, moderator, ""), ErrFlagNotFound)
}

func TestMarkActionedWrapsStoreErrors(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)
	f.flagRepo.On("Resolve", mock.Anything, 3, mock.Anything, false).Return(errors.New("deadlock"))

	err := f.flags.MarkActioned(context.Background(), 3, moderator, "Post removed: spam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve flag")
}

func TestMarkActionedEmitsAudit(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)
	pub := new(mocks.PublisherMock)
	f.flags.audit = telemetry.NewAuditEmitter(pub, "audit.moderation", "community-service", "test")
	f.flagRepo.On("Resolve", mock.Anything, 3, mock.Anything, false).Return(nil)
	pub.On("Publish", mock.Anything, "audit.moderation", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Action == "mark_actioned" && env.Payload.TargetID == 3 && env.Payload.Reason == "handled offline"
	})).Return(nil).Once()

	require.NoError(t, f.flags.MarkActioned(context.Background(), 3, moderator, "handled offline"))
	pub.AssertExpectations(t)
}

func TestMarkActionedFailureSkipsAudit(t *testing.T) {
	f := newFlagsFixture(config.PolicyReject)
	pub := new(mocks.PublisherMock)
	f.flags.audit = telemetry.NewAuditEmitter(pub, "audit.moderation", "community-service", "test")
	f.flagRepo.On("Resolve", mock.Anything, 3, mock.Anything, true).Return(repositories.ErrFlagNotPending)

	err := f.flags.MarkActioned(context.Background(), 3, moderator, "")
	assert.ErrorIs(t, err, ErrFlagAlreadyResolved)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard(t *testing.T) {
	f := newFlagsFixture(config.PolicyOverwrite)
	reviewedAt := fixedNow.Add(-time.Hour)
	f.flagRepo.On("ListByStatus", mock.Anything, models.FlagPending).Return([]models.Flag{
		{ID: 1, ContentType: models.ContentPost, ContentID: 1, Status: models.FlagPending},
		{ID: 2, ContentType: models.ContentPost, ContentID: 2, Status: models.FlagPending},
	}, nil)
	f.flagRepo.On("ListRecentlyReviewed", mock.Anything, 10).Return([]models.Flag{{ID: 3, Status: models.FlagDismissed, ReviewedAt: &reviewedAt}}, nil)
	f.flagRepo.On("CountReviewedSince", mock.Anything, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)).Return(4, nil)
	f.profiles.On("CountSuspended", mock.Anything).Return(2, nil)
	f.posts.On("GetPost", mock.Anything, 1).Return(models.Post{ID: 1, UserID: 9}, nil)
	f.posts.On("GetPost", mock.Anything, 2).Return(nil, repositories.ErrPostNotFound)

	dash, err := f.flags.Dashboard(context.Background(), moderator)
	require.NoError(t, err)
	require.Len(t, dash.Pending, 2)
	require.NotNil(t, dash.Pending[0].FlaggedUserID)
	assert.Equal(t, 9, *dash.Pending[0].FlaggedUserID)
	assert.Nil(t, dash.Pending[1].Content)
	assert.Len(t, dash.RecentlyReviewed, 1)
	assert.Equal(t, 4, dash.ReviewedToday)
	assert.Equal(t, 2, dash.SuspendedUsers)

	_, err = f.flags.Dashboard(context.Background(), member)
	assert.ErrorIs(t, err, ErrNotModerator)
}
