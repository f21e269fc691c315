package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	routingKey string
	events     []AuditEnvelope
	err        error
}

func (p *capturePublisher) Publish(ctx context.Context, routingKey string, event any) error {
	p.routingKey = routingKey
	p.events = append(p.events, event.(AuditEnvelope))
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func TestEmitModerationBuildsEnvelope(t *testing.T) {
	pub := &capturePublisher{}
	emitter := NewAuditEmitter(pub, "audit.moderation", "community-service", "test")
	emitter.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	flagID := 4
	ctx := WithRequestID(context.Background(), "req-9")
	emitter.EmitModeration(ctx, ModerationAudit{
		ActorID:    2,
		Action:     "remove_post",
		TargetType: "post",
		TargetID:   11,
		FlagID:     &flagID,
		Reason:     "spam",
	})

	require.Len(t, pub.events, 1)
	env := pub.events[0]
	assert.Equal(t, "audit.moderation", pub.routingKey)
	assert.Equal(t, "moderation_action", env.EventType)
	assert.Equal(t, "req-9", env.RequestID)
	assert.Equal(t, "2024-03-01T12:00:00Z", env.OccurredAt)
	require.NotNil(t, env.UserID)
	assert.Equal(t, "2", *env.UserID)
	assert.Equal(t, "remove_post", env.Payload.Action)
	assert.Equal(t, 11, env.Payload.TargetID)
	assert.Equal(t, &flagID, env.Payload.FlagID)
}

func TestEmitSwallowsPublishErrors(t *testing.T) {
	pub := &capturePublisher{err: errors.New("down")}
	emitter := NewAuditEmitter(pub, "audit", "svc", "test")

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "hello", "r", nil)
	})
	assert.Len(t, pub.events, 1)
}

func TestNilEmitterIsNoop(t *testing.T) {
	var emitter *AuditEmitter
	assert.NotPanics(t, func() {
		emitter.EmitModeration(context.Background(), ModerationAudit{Action: "suspend"})
	})
}
