package telemetry

import (
	"context"
	"log"
	"strconv"
	"time"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type requestIDKey struct{}

// WithRequestID attaches the inbound request id so services can stamp audit
// events without depending on the HTTP layer.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	now         func() time.Time
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level      string `json:"level"`
	Text       string `json:"text"`
	Action     string `json:"action,omitempty"`
	TargetType string `json:"target_type,omitempty"`
	TargetID   int    `json:"target_id,omitempty"`
	FlagID     *int   `json:"flag_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ModerationAudit describes one moderator action.
type ModerationAudit struct {
	ActorID    int
	Action     string
	TargetType string
	TargetID   int
	FlagID     *int
	Reason     string
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		now:         time.Now,
	}
}

// Emit publishes a free-form audit log line.
func (e *AuditEmitter) Emit(ctx context.Context, level, text, requestID string, userID *string) {
	if e == nil || e.publisher == nil {
		return
	}

	log.Printf("audit emit: level=%s request_id=%s user_id=%v text=%q", level, requestID, userID, text)
	e.publish(ctx, "audit_log", requestID, userID, AuditPayload{Level: level, Text: text})
}

// EmitModeration publishes a structured record of a moderator action.
func (e *AuditEmitter) EmitModeration(ctx context.Context, event ModerationAudit) {
	if e == nil || e.publisher == nil {
		return
	}

	requestID := RequestIDFromContext(ctx)
	actor := strconv.Itoa(event.ActorID)
	log.Printf("audit moderation: action=%s actor=%s target=%s:%d request_id=%s", event.Action, actor, event.TargetType, event.TargetID, requestID)
	e.publish(ctx, "moderation_action", requestID, &actor, AuditPayload{
		Level:      "INFO",
		Text:       event.Action + " " + event.TargetType,
		Action:     event.Action,
		TargetType: event.TargetType,
		TargetID:   event.TargetID,
		FlagID:     event.FlagID,
		Reason:     event.Reason,
	})
}

func (e *AuditEmitter) publish(ctx context.Context, eventType, requestID string, userID *string, payload AuditPayload) {
	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        userID,
		Payload:       payload,
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Printf("audit publish failed: %v", err)
	}
}
