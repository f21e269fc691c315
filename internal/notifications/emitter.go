package notifications

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"community-service/internal/models"
	"community-service/internal/observability"
	"community-service/internal/repositories"
	"community-service/internal/telemetry"
)

const createdRoutingKey = "notifications.created"

// Pusher delivers events to a user's live connections. ws.Hub implements it.
type Pusher interface {
	PushToUser(userID int, event models.NotificationEvent) int
}

// Emitter persists notifications and fans them out to live listeners.
type Emitter struct {
	repo   repositories.NotificationRepository
	pusher Pusher
}

// NewEmitter constructs an Emitter. pusher may be nil.
func NewEmitter(repo repositories.NotificationRepository, pusher Pusher) *Emitter {
	return &Emitter{repo: repo, pusher: pusher}
}

// Notify stores a notification for recipientID. When senderID equals the
// recipient nothing is stored and a nil notification is returned. Only the
// insert can fail; delivery to sockets and the event bus is best-effort.
func (e *Emitter) Notify(ctx context.Context, recipientID int, kind models.NotificationKind, senderID *int, message string) (*models.Notification, error) {
	if senderID != nil && *senderID == recipientID {
		return nil, nil
	}

	ctx, span := otel.Tracer("community-service/notifications").Start(ctx, "notifications.notify",
		trace.WithAttributes(attribute.String("notification.kind", string(kind)), attribute.Int("notification.recipient", recipientID)))
	defer span.End()

	created, err := e.repo.Create(ctx, models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		Message:     truncateRunes(message, maxMessageRunes),
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	observability.IncNotificationCreated(string(kind))

	e.push(ctx, &created)

	var traceID string
	if sc := span.SpanContext(); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	envelope := observability.NewEnvelope("notifications", createdRoutingKey, telemetry.RequestIDFromContext(ctx), traceID, created)
	if err := observability.PublishEvent(ctx, createdRoutingKey, envelope); err != nil {
		observability.IncNotificationFailure("publish")
		log.Printf("notification publish failed: id=%d err=%v", created.ID, err)
	}
	return &created, nil
}

func (e *Emitter) push(ctx context.Context, n *models.Notification) {
	if e.pusher == nil {
		return
	}
	unread, err := e.repo.CountUnread(ctx, n.RecipientID)
	if err != nil {
		observability.IncNotificationFailure("unread_count")
		log.Printf("notification unread count failed: recipient=%d err=%v", n.RecipientID, err)
	}
	e.pusher.PushToUser(n.RecipientID, models.NotificationEvent{Type: "notification", Notification: n, UnreadCount: unread})
}
