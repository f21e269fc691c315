package social

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"community-service/internal/models"
	"community-service/internal/notifications"
	"community-service/internal/observability"
	"community-service/internal/repositories"
)

var tracer = otel.Tracer("community-service/social")

// Notifier stores a notification for a recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID int, kind models.NotificationKind, senderID *int, message string) (*models.Notification, error)
}

// NameResolver renders the name used in notification text.
type NameResolver interface {
	For(ctx context.Context, user models.User) string
}

// Workflow drives friend requests through pending -> accepted | rejected and
// keeps the friendship ledger in step.
type Workflow struct {
	requests repositories.FriendRequestRepository
	users    repositories.UserRepository
	ledger   *Ledger
	notifier Notifier
	names    NameResolver
	now      func() time.Time
}

func NewWorkflow(requests repositories.FriendRequestRepository, users repositories.UserRepository, ledger *Ledger, notifier Notifier, names NameResolver) *Workflow {
	return &Workflow{
		requests: requests,
		users:    users,
		ledger:   ledger,
		notifier: notifier,
		names:    names,
		now:      time.Now,
	}
}

// Response is the result of answering a request. Counterpart is the user who
// sent it.
type Response struct {
	Request     models.FriendRequest
	Counterpart models.User
}

// Send creates a pending request from one user to another and notifies the
// recipient.
func (w *Workflow) Send(ctx context.Context, from, to models.User) (models.FriendRequest, error) {
	ctx, span := tracer.Start(ctx, "social.send_request", trace.WithAttributes(attribute.Int("from", from.ID), attribute.Int("to", to.ID)))
	defer span.End()

	if from.ID == to.ID {
		return models.FriendRequest{}, ErrSelfRequest
	}

	friends, err := w.ledger.AreFriends(ctx, from.ID, to.ID)
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return models.FriendRequest{}, ErrAlreadyFriends
	}

	_, err = w.requests.FindPending(ctx, from.ID, to.ID)
	switch {
	case err == nil:
		return models.FriendRequest{}, ErrRequestAlreadySent
	case !errors.Is(err, repositories.ErrFriendRequestNotFound):
		return models.FriendRequest{}, fmt.Errorf("find pending request: %w", err)
	}

	reverse, err := w.requests.FindPending(ctx, to.ID, from.ID)
	switch {
	case err == nil:
		return models.FriendRequest{}, &ReversePendingError{Request: reverse}
	case !errors.Is(err, repositories.ErrFriendRequestNotFound):
		return models.FriendRequest{}, fmt.Errorf("find reverse request: %w", err)
	}

	req, err := w.requests.Create(ctx, from.ID, to.ID)
	if errors.Is(err, repositories.ErrDuplicatePendingRequest) {
		return models.FriendRequest{}, ErrRequestAlreadySent
	}
	if err != nil {
		span.RecordError(err)
		return models.FriendRequest{}, fmt.Errorf("create request: %w", err)
	}
	observability.IncFriendRequest("sent")

	w.notify(ctx, to.ID, models.NotificationFriendRequest, from.ID, notifications.FriendRequestMessage(w.names.For(ctx, from)))
	return req, nil
}

// Accept answers a pending request addressed to actor, creates the friendship
// and notifies the sender.
func (w *Workflow) Accept(ctx context.Context, requestID int, actor models.User) (Response, error) {
	ctx, span := tracer.Start(ctx, "social.accept_request", trace.WithAttributes(attribute.Int("request_id", requestID)))
	defer span.End()

	req, err := w.transition(ctx, requestID, actor.ID, models.FriendRequestAccepted)
	if err != nil {
		return Response{}, err
	}

	if _, err := w.ledger.Create(ctx, req.FromUserID, req.ToUserID); err != nil {
		span.RecordError(err)
		return Response{}, fmt.Errorf("create friendship: %w", err)
	}

	w.notify(ctx, req.FromUserID, models.NotificationFriendAccept, actor.ID, notifications.FriendAcceptedMessage(w.names.For(ctx, actor)))
	return Response{Request: req, Counterpart: w.lookup(ctx, req.FromUserID)}, nil
}

// Reject answers a pending request addressed to actor. No friendship is
// created and nobody is notified.
func (w *Workflow) Reject(ctx context.Context, requestID int, actor models.User) (Response, error) {
	req, err := w.transition(ctx, requestID, actor.ID, models.FriendRequestRejected)
	if err != nil {
		return Response{}, err
	}
	return Response{Request: req, Counterpart: w.lookup(ctx, req.FromUserID)}, nil
}

// Unfriend removes the friendship between actor and friend and notifies
// friend. Request history is left alone.
func (w *Workflow) Unfriend(ctx context.Context, actor, friend models.User) error {
	removed, err := w.ledger.Remove(ctx, actor.ID, friend.ID)
	if err != nil {
		return fmt.Errorf("remove friendship: %w", err)
	}
	if !removed {
		return ErrNotFriends
	}
	observability.IncFriendRequest("unfriended")

	w.notify(ctx, friend.ID, models.NotificationFriendRemoved, actor.ID, notifications.FriendRemovedMessage(w.names.For(ctx, actor)))
	return nil
}

func (w *Workflow) transition(ctx context.Context, requestID, recipientID int, status models.FriendRequestStatus) (models.FriendRequest, error) {
	req, err := w.requests.GetForRecipient(ctx, requestID, recipientID)
	if errors.Is(err, repositories.ErrFriendRequestNotFound) {
		return models.FriendRequest{}, ErrFriendRequestNotFound
	}
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("load request: %w", err)
	}
	if !req.IsPending() {
		return models.FriendRequest{}, ErrAlreadyProcessed
	}

	now := w.now()
	err = w.requests.Respond(ctx, req.ID, status, now)
	if errors.Is(err, repositories.ErrRequestNotPending) {
		return models.FriendRequest{}, ErrAlreadyProcessed
	}
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("respond to request: %w", err)
	}
	observability.IncFriendRequest(string(status))

	req.Status = status
	req.RespondedAt = &now
	return req, nil
}

func (w *Workflow) lookup(ctx context.Context, userID int) models.User {
	user, err := w.users.GetUser(ctx, userID)
	if err != nil {
		log.Printf("friend lookup failed: user_id=%d err=%v", userID, err)
		return models.User{ID: userID}
	}
	return user
}

func (w *Workflow) notify(ctx context.Context, recipientID int, kind models.NotificationKind, senderID int, message string) {
	if _, err := w.notifier.Notify(ctx, recipientID, kind, &senderID, message); err != nil {
		observability.IncNotificationFailure("store")
		log.Printf("notification failed: kind=%s recipient=%d err=%v", kind, recipientID, err)
	}
}
