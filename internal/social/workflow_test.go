package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"community-service/internal/mocks"
	"community-service/internal/models"
	"community-service/internal/repositories"
)

type staticNames struct{}

func (staticNames) For(ctx context.Context, user models.User) string {
	return "@" + user.Username
}

type workflowFixture struct {
	requests   *mocks.FriendRequestRepositoryMock
	friendship *mocks.FriendshipRepositoryMock
	users      *mocks.UserRepositoryMock
	notifier   *mocks.NotifierMock
	workflow   *Workflow
	now        time.Time
}

func newWorkflowFixture() *workflowFixture {
	f := &workflowFixture{
		requests:   new(mocks.FriendRequestRepositoryMock),
		friendship: new(mocks.FriendshipRepositoryMock),
		users:      new(mocks.UserRepositoryMock),
		notifier:   new(mocks.NotifierMock),
		now:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	f.workflow = NewWorkflow(f.requests, f.users, NewLedger(f.friendship), f.notifier, staticNames{})
	f.workflow.now = func() time.Time { return f.now }
	return f
}

var (
	alice = models.User{ID: 1, Username: "alice"}
	bob   = models.User{ID: 2, Username: "bob"}
)

func senderIs(id int) interface{} {
	return mock.MatchedBy(func(p *int) bool { return p != nil && *p == id })
}

func TestSendCreatesRequestAndNotifies(t *testing.T) {
	f := newWorkflowFixture()
	f.friendship.On("Exists", mock.Anything, 1, 2).Return(false, nil)
	f.requests.On("FindPending", mock.Anything, 1, 2).Return(nil, repositories.ErrFriendRequestNotFound)
	f.requests.On("FindPending", mock.Anything, 2, 1).Return(nil, repositories.ErrFriendRequestNotFound)
	f.requests.On("Create", mock.Anything, 1, 2).Return(models.FriendRequest{ID: 7, FromUserID: 1, ToUserID: 2, Status: models.FriendRequestPending}, nil)
	f.notifier.On("Notify", mock.Anything, 2, models.NotificationFriendRequest, senderIs(1), "@alice sent you a friend request").Return(&models.Notification{ID: 1}, nil)

	req, err := f.workflow.Send(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, 7, req.ID)
	assert.True(t, req.IsPending())
	f.notifier.AssertExpectations(t)
}

func TestSendGuards(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		f := newWorkflowFixture()
		_, err := f.workflow.Send(context.Background(), alice, alice)
		assert.ErrorIs(t, err, ErrSelfRequest)
	})

	t.Run("already friends", func(t *testing.T) {
		f := newWorkflowFixture()
		f.friendship.On("Exists", mock.Anything, 1, 2).Return(true, nil)
		_, err := f.workflow.Send(context.Background(), bob, alice)
		assert.ErrorIs(t, err, ErrAlreadyFriends)
	})

	t.Run("duplicate pending", func(t *testing.T) {
		f := newWorkflowFixture()
		f.friendship.On("Exists", mock.Anything, 1, 2).Return(false, nil)
		f.requests.On("FindPending", mock.Anything, 1, 2).Return(models.FriendRequest{ID: 3}, nil)
		_, err := f.workflow.Send(context.Background(), alice, bob)
		assert.ErrorIs(t, err, ErrRequestAlreadySent)
		f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reverse pending", func(t *testing.T) {
		f := newWorkflowFixture()
		f.friendship.On("Exists", mock.Anything, 1, 2).Return(false, nil)
		f.requests.On("FindPending", mock.Anything, 1, 2).Return(nil, repositories.ErrFriendRequestNotFound)
		f.requests.On("FindPending", mock.Anything, 2, 1).Return(models.FriendRequest{ID: 9, FromUserID: 2, ToUserID: 1, Status: models.FriendRequestPending}, nil)

		_, err := f.workflow.Send(context.Background(), alice, bob)
		var reverse *ReversePendingError
		require.ErrorAs(t, err, &reverse)
		assert.Equal(t, 9, reverse.Request.ID)
	})

	t.Run("concurrent duplicate", func(t *testing.T) {
		f := newWorkflowFixture()
		f.friendship.On("Exists", mock.Anything, 1, 2).Return(false, nil)
		f.requests.On("FindPending", mock.Anything, mock.Anything, mock.Anything).Return(nil, repositories.ErrFriendRequestNotFound)
		f.requests.On("Create", mock.Anything, 1, 2).Return(nil, repositories.ErrDuplicatePendingRequest)

		_, err := f.workflow.Send(context.Background(), alice, bob)
		assert.ErrorIs(t, err, ErrRequestAlreadySent)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSendSurvivesNotificationFailure(t *testing.T) {
	f := newWorkflowFixture()
	f.friendship.On("Exists", mock.Anything, 1, 2).Return(false, nil)
	f.requests.On("FindPending", mock.Anything, mock.Anything, mock.Anything).Return(nil, repositories.ErrFriendRequestNotFound)
	f.requests.On("Create", mock.Anything, 1, 2).Return(models.FriendRequest{ID: 7}, nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	req, err := f.workflow.Send(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, 7, req.ID)
}

func TestAcceptCreatesFriendshipAndNotifiesSender(t *testing.T) {
	f := newWorkflowFixture()
	pending := models.FriendRequest{ID: 7, FromUserID: 1, ToUserID: 2, Status: models.FriendRequestPending}
	f.requests.On("GetForRecipient", mock.Anything, 7, 2).Return(pending, nil)
	f.requests.On("Respond", mock.Anything, 7, models.FriendRequestAccepted, f.now).Return(nil)
	f.friendship.On("GetOrCreate", mock.Anything, 1, 2).Return(models.Friendship{ID: 1, User1ID: 1, User2ID: 2}, nil)
	f.users.On("GetUser", mock.Anything, 1).Return(alice, nil)
	f.notifier.On("Notify", mock.Anything, 1, models.NotificationFriendAccept, senderIs(2), "@bob accepted your friend request").Return(&models.Notification{}, nil)

	resp, err := f.workflow.Accept(context.Background(), 7, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestAccepted, resp.Request.Status)
	require.NotNil(t, resp.Request.RespondedAt)
	assert.Equal(t, f.now, *resp.Request.RespondedAt)
	assert.Equal(t, "alice", resp.Counterpart.Username)
	f.friendship.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestAcceptByNonRecipientIsNotFound(t *testing.T) {
	f := newWorkflowFixture()
	f.requests.On("GetForRecipient", mock.Anything, 7, 1).Return(nil, repositories.ErrFriendRequestNotFound)

	_, err := f.workflow.Accept(context.Background(), 7, alice)
	assert.ErrorIs(t, err, ErrFriendRequestNotFound)
	f.requests.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptProcessedRequestIsInformational(t *testing.T) {
	f := newWorkflowFixture()
	f.requests.On("GetForRecipient", mock.Anything, 7, 2).Return(models.FriendRequest{ID: 7, FromUserID: 1, ToUserID: 2, Status: models.FriendRequestRejected}, nil)

	_, err := f.workflow.Accept(context.Background(), 7, bob)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	f.friendship.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptLosesRace(t *testing.T) {
	f := newWorkflowFixture()
	f.requests.On("GetForRecipient", mock.Anything, 7, 2).Return(models.FriendRequest{ID: 7, FromUserID: 1, ToUserID: 2, Status: models.FriendRequestPending}, nil)
	f.requests.On("Respond", mock.Anything, 7, models.FriendRequestAccepted, f.now).Return(repositories.ErrRequestNotPending)

	_, err := f.workflow.Accept(context.Background(), 7, bob)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectDoesNotNotify(t *testing.T) {
	f := newWorkflowFixture()
	f.requests.On("GetForRecipient", mock.Anything, 7, 2).Return(models.FriendRequest{ID: 7, FromUserID: 1, ToUserID: 2, Status: models.FriendRequestPending}, nil)
	f.requests.On("Respond", mock.Anything, 7, models.FriendRequestRejected, f.now).Return(nil)
	f.users.On("GetUser", mock.Anything, 1).Return(alice, nil)

	resp, err := f.workflow.Reject(context.Background(), 7, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestRejected, resp.Request.Status)
	f.friendship.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUnfriendNotifiesRemovedUser(t *testing.T) {
	f := newWorkflowFixture()
	f.friendship.On("Delete", mock.Anything, 1, 2).Return(true, nil)
	f.notifier.On("Notify", mock.Anything, 1, models.NotificationFriendRemoved, senderIs(2), "@bob removed you from their friends list").Return(&models.Notification{}, nil)

	require.NoError(t, f.workflow.Unfriend(context.Background(), bob, alice))
	f.notifier.AssertExpectations(t)
	f.requests.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUnfriendWhenNotFriends(t *testing.T) {
	f := newWorkflowFixture()
	f.friendship.On("Delete", mock.Anything, 1, 2).Return(false, nil)

	err := f.workflow.Unfriend(context.Background(), alice, bob)
	assert.ErrorIs(t, err, ErrNotFriends)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOverview(t *testing.T) {
	f := newWorkflowFixture()
	carol := models.User{ID: 3, Username: "carol"}
	f.friendship.On("ListForUser", mock.Anything, 1).Return([]models.Friendship{{ID: 1, User1ID: 1, User2ID: 2}}, nil)
	f.requests.On("ListIncomingPending", mock.Anything, 1).Return([]models.FriendRequest{{ID: 5, FromUserID: 3, ToUserID: 1}}, nil)
	f.requests.On("ListOutgoingPending", mock.Anything, 1).Return(nil, nil)
	f.users.On("GetUser", mock.Anything, 2).Return(bob, nil)
	f.users.On("GetUser", mock.Anything, 3).Return(carol, nil)

	overview, err := f.workflow.Overview(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, overview.Friends, 1)
	assert.Equal(t, "@bob", overview.Friends[0].DisplayName)
	require.Len(t, overview.Incoming, 1)
	assert.Equal(t, "carol", overview.Incoming[0].User.Username)
	assert.Empty(t, overview.Outgoing)
}
