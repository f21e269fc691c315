package ws

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"community-service/internal/middleware"
	"community-service/internal/models"
	"community-service/internal/observability"
)

// TokenValidator verifies a bearer token and returns the user id it names.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (int, error)
}

// AccountResolver loads the account state checked before a stream opens.
type AccountResolver interface {
	Resolve(ctx context.Context, userID int) (models.User, models.Profile, error)
}

// NotificationWebSocketHandler streams a user's notifications as they are
// created.
type NotificationWebSocketHandler struct {
	hub      *Hub
	tokens   TokenValidator
	accounts AccountResolver
}

// NewNotificationWebSocketHandler constructs a NotificationWebSocketHandler.
func NewNotificationWebSocketHandler(hub *Hub, tokens TokenValidator, accounts AccountResolver) *NotificationWebSocketHandler {
	return &NotificationWebSocketHandler{hub: hub, tokens: tokens, accounts: accounts}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates, refuses suspended accounts, then upgrades the
// connection and registers the client.
// Browsers cannot set headers on websocket requests, so the token may also
// come from the token query parameter.
func (h *NotificationWebSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("community-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	userID, err := h.tokens.ValidateToken(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	// Suspended accounts get no live channel.
	_, profile, err := h.accounts.Resolve(ctx, userID)
	if err != nil {
		log.Printf("ws: resolve account failed user_id=%d err=%v", userID, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	if profile.IsSuspended {
		c.JSON(http.StatusForbidden, gin.H{"error": "account suspended", "redirect": middleware.SuspendedPath})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	identity := observability.IdentityFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    identity.DeviceID,
		IP:          identity.IP,
		RequestID:   identity.RequestID,
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(userID, conn, info)
	observability.IncWSActive(wsKind)
	publishConnEvent(ctx, "ws_connect", info, "")

	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(userID, conn)
			observability.DecWSActive(wsKind)
			publishConnEvent(context.Background(), "ws_disconnect", info, closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					publishConnEvent(context.Background(), "ws_error", info, closeReason)
				}
				return
			}
		}
	}()
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
