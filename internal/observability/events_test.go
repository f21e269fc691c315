package observability

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys   []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, event)
	return p.err
}

func TestPublishEventWithoutPublisher(t *testing.T) {
	SetPublisher(nil)
	assert.NoError(t, PublishEvent(context.Background(), "ws_events.notifications", NewEnvelope("ws_events", "ws_connect", "", "", nil)))
}

func TestPublishEventForwardsEnvelope(t *testing.T) {
	pub := &recordingPublisher{}
	SetPublisher(pub)
	t.Cleanup(func() { SetPublisher(nil) })

	envelope := NewEnvelope("notifications", "notifications.created", "req-1", "trace-1", map[string]int{"id": 7})
	require.NoError(t, PublishEvent(context.Background(), "notifications.created", envelope))

	require.Len(t, pub.events, 1)
	assert.Equal(t, "notifications.created", pub.keys[0])
	got := pub.events[0].(EventEnvelope)
	assert.Equal(t, "req-1", got.RequestID)
	assert.NotEmpty(t, got.OccurredAt)
}

func TestPublishEventReturnsError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	SetPublisher(pub)
	t.Cleanup(func() { SetPublisher(nil) })

	err := PublishEvent(context.Background(), "x", EventEnvelope{})
	assert.EqualError(t, err, "channel closed")
}

func TestIdentityFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/notifications", nil)
	req.Header.Set("X-Request-Id", "abc")
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")

	identity := IdentityFromRequest(req)
	assert.Equal(t, "abc", identity.RequestID)
	assert.Equal(t, "10.0.0.1", identity.IP)
}
