package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"community-service/internal/models"
	"community-service/internal/observability"
	"community-service/internal/telemetry"
)

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(ctx context.Context, recipientID int, kind models.NotificationKind, senderID *int, message string) (*models.Notification, error) {
	args := m.Called(ctx, recipientID, kind, senderID, message)
	var n *models.Notification
	if val := args.Get(0); val != nil {
		n = val.(*models.Notification)
	}
	return n, args.Error(1)
}

type PusherMock struct {
	mock.Mock
}

func (m *PusherMock) PushToUser(userID int, event models.NotificationEvent) int {
	args := m.Called(userID, event)
	return args.Int(0)
}

// PublisherMock stands in for the RabbitMQ publisher behind audit and domain
// events.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ telemetry.Publisher     = (*PublisherMock)(nil)
	_ observability.Publisher = (*PublisherMock)(nil)
)
