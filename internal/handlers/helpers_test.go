package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"community-service/internal/flash"
	"community-service/internal/middleware"
	"community-service/internal/models"
)

var (
	alice = models.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	bob   = models.User{ID: 2, Username: "bob", Email: "bob@example.com"}
)

type plainNames struct{}

func (plainNames) For(ctx context.Context, user models.User) string {
	return user.Username
}

// newTestRouter mimics the session store and auth middleware for user.
func newTestRouter(user models.User, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("community_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user.ID)
		c.Set(middleware.ContextUser, user)
		c.Set(middleware.ContextRole, role)
		c.Next()
	})
	r.GET("/messages/", NewAccountHandler(nil).Messages)
	return r
}

func perform(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// flashes replays the session cookie from rec against /messages/.
func flashes(t *testing.T, r *gin.Engine, rec *httptest.ResponseRecorder) []flash.Message {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/messages/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var body struct {
		Messages []flash.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(out.Body).Decode(&body))
	return body.Messages
}

func requireFlash(t *testing.T, r *gin.Engine, rec *httptest.ResponseRecorder, level flash.Level, text string) {
	t.Helper()
	msgs := flashes(t, r, rec)
	require.Len(t, msgs, 1)
	require.Equal(t, flash.Message{Level: level, Text: text}, msgs[0])
}

func performForm(r *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func performJSON(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
