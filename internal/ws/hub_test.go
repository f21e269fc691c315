package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-service/internal/models"
)

type fakeSocket struct {
	mu     sync.Mutex
	writes [][]byte
	err    error
	closed bool
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, data)
	return nil
}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()
	conn := &fakeSocket{}

	hub.AddClient(1, conn, ConnInfo{UserID: 1})
	assert.Equal(t, 1, hub.ConnectionCount(1))

	hub.RemoveClient(1, conn)
	assert.Equal(t, 0, hub.ConnectionCount(1))
	assert.Empty(t, hub.users)
}

func TestPushToUserFansOut(t *testing.T) {
	hub := NewHub()
	a, b, other := &fakeSocket{}, &fakeSocket{}, &fakeSocket{}
	hub.AddClient(1, a, ConnInfo{UserID: 1})
	hub.AddClient(1, b, ConnInfo{UserID: 1})
	hub.AddClient(2, other, ConnInfo{UserID: 2})

	n := &models.Notification{ID: 9, RecipientID: 1, Kind: models.NotificationFriendRequest, Message: "ana sent you a friend request"}
	delivered := hub.PushToUser(1, models.NotificationEvent{Type: "notification", Notification: n, UnreadCount: 3})

	assert.Equal(t, 2, delivered)
	require.Len(t, a.writes, 1)
	assert.Len(t, b.writes, 1)
	assert.Empty(t, other.writes)

	var event models.NotificationEvent
	require.NoError(t, json.Unmarshal(a.writes[0], &event))
	assert.Equal(t, 3, event.UnreadCount)
	assert.Equal(t, 9, event.Notification.ID)
}

func TestPushToUserDropsBrokenConnections(t *testing.T) {
	hub := NewHub()
	broken := &fakeSocket{err: errors.New("broken pipe")}
	hub.AddClient(1, broken, ConnInfo{UserID: 1, ConnID: "c1", ConnectedAt: time.Now()})

	delivered := hub.PushToUser(1, models.NotificationEvent{Type: "read_all"})
	assert.Equal(t, 0, delivered)
	assert.True(t, broken.closed)
	assert.Equal(t, 0, hub.ConnectionCount(1))
}

func TestPushToUserWithoutConnections(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.PushToUser(42, models.NotificationEvent{Type: "notification"}))
}

type staticTokens map[string]int

func (s staticTokens) ValidateToken(ctx context.Context, token string) (int, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

type staticAccounts map[int]models.Profile

func (s staticAccounts) Resolve(ctx context.Context, userID int) (models.User, models.Profile, error) {
	profile, ok := s[userID]
	if !ok {
		return models.User{}, models.Profile{}, errors.New("user not found")
	}
	return models.User{ID: userID}, profile, nil
}

func TestNotificationWebSocketHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	router := gin.New()
	accounts := staticAccounts{5: {UserID: 5, Role: models.RoleUser}}
	router.GET("/ws/notifications", NewNotificationWebSocketHandler(hub, staticTokens{"good": 5}, accounts).Handle)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/notifications?token=bad")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications?token=good"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount(5) == 1 }, time.Second, 10*time.Millisecond)

	hub.PushToUser(5, models.NotificationEvent{Type: "notification", Notification: &models.Notification{ID: 1, RecipientID: 5}})
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var event models.NotificationEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "notification", event.Type)
}

func TestNotificationWebSocketRefusesSuspendedAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	router := gin.New()
	accounts := staticAccounts{6: {UserID: 6, Role: models.RoleUser, IsSuspended: true}}
	tokens := staticTokens{"suspended": 6, "orphan": 7}
	router.GET("/ws/notifications", NewNotificationWebSocketHandler(hub, tokens, accounts).Handle)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications?token=suspended"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Nil(t, conn)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "account suspended", body["error"])
	assert.Equal(t, "/account-suspended/", body["redirect"])
	assert.Equal(t, 0, hub.ConnectionCount(6))

	url = "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications?token=orphan"
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hub.ConnectionCount(7))
}
