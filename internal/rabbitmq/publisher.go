package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"community-service/internal/observability"
	"community-service/internal/telemetry"
)

// ErrClosed is returned when publishing after the broker connection dropped.
var ErrClosed = errors.New("rabbitmq: connection closed")

// Publisher publishes audit and domain events to a topic exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// NewPublisher connects to RabbitMQ and declares the exchange. Any failure
// yields a publisher that only logs, so the service runs without a broker.
func NewPublisher(amqpURL, exchange string) Publisher {
	if amqpURL == "" {
		return newNoop("empty amqp url")
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return newNoop(err.Error())
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return newNoop(err.Error())
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return newNoop(err.Error())
	}

	p := &amqpPublisher{conn: conn, ch: ch, exchange: exchange}
	go p.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))
	log.Printf("rabbitmq connected exchange=%s", exchange)
	return p
}

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	closed   bool
}

func (p *amqpPublisher) watch(closes <-chan *amqp.Error) {
	if err, ok := <-closes; ok && err != nil {
		log.Printf("rabbitmq connection lost: code=%d reason=%s", err.Code, err.Reason)
	}
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	meta := describe(event)
	correlationID := meta.requestID
	if correlationID == "" {
		correlationID = telemetry.RequestIDFromContext(ctx)
	}
	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: correlationID,
		Type:          meta.eventType,
		Timestamp:     time.Now(),
		Body:          body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		observability.IncAMQPPublishError()
		return ErrClosed
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		observability.IncAMQPPublishError()
		log.Printf("rabbitmq publish failed: routing_key=%s type=%s err=%v", routingKey, meta.eventType, err)
		return err
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	reason string
}

func newNoop(reason string) noopPublisher {
	log.Printf("rabbitmq disabled, using noop: %s", reason)
	return noopPublisher{reason: reason}
}

func (noopPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	meta := describe(event)
	log.Printf("rabbitmq noop publish routing_key=%s type=%s request_id=%s", routingKey, meta.eventType, meta.requestID)
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

type eventMeta struct {
	eventType string
	requestID string
}

func describe(event any) eventMeta {
	switch e := event.(type) {
	case telemetry.AuditEnvelope:
		return eventMeta{eventType: e.EventType, requestID: e.RequestID}
	case *telemetry.AuditEnvelope:
		return eventMeta{eventType: e.EventType, requestID: e.RequestID}
	case observability.EventEnvelope:
		return eventMeta{eventType: e.EventType + "." + e.EventName, requestID: e.RequestID}
	case *observability.EventEnvelope:
		return eventMeta{eventType: e.EventType + "." + e.EventName, requestID: e.RequestID}
	}
	return eventMeta{}
}

// Mode reports "amqp" or "noop" together with the reason the broker is off.
func Mode(p Publisher) (string, string) {
	switch publisher := p.(type) {
	case *amqpPublisher:
		return "amqp", ""
	case noopPublisher:
		return "noop", publisher.reason
	}
	return "unknown", ""
}
