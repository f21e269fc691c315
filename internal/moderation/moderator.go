package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"community-service/internal/models"
	"community-service/internal/notifications"
	"community-service/internal/observability"
	"community-service/internal/repositories"
	"community-service/internal/telemetry"
)

const defaultRemovalReason = "Violates community standards"

// Notifier stores a notification for a recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID int, kind models.NotificationKind, senderID *int, message string) (*models.Notification, error)
}

// Moderator performs content removal and account suspension. Each action
// writes its target first; notifying the owner and closing the related flag
// are best-effort and never undo the primary write.
type Moderator struct {
	posts    repositories.PostRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	flags    *Flags
	notifier Notifier
	audit    *telemetry.AuditEmitter
	now      func() time.Time
}

func NewModerator(
	posts repositories.PostRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	flags *Flags,
	notifier Notifier,
	audit *telemetry.AuditEmitter,
) *Moderator {
	return &Moderator{
		posts:    posts,
		messages: messages,
		users:    users,
		profiles: profiles,
		flags:    flags,
		notifier: notifier,
		audit:    audit,
		now:      time.Now,
	}
}

// RemovePost hides a post and tells its author.
func (m *Moderator) RemovePost(ctx context.Context, postID int, actor models.Actor, reason string, flagID *int) (models.Post, error) {
	if err := authorize(actor); err != nil {
		return models.Post{}, err
	}
	ctx, span := tracer.Start(ctx, "moderation.remove_post", trace.WithAttributes(attribute.Int("post_id", postID)))
	defer span.End()

	reason = removalReason(reason)
	post, err := m.posts.GetPost(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}

	removal := models.Removal{ActorID: actor.ID, At: m.now(), Reason: reason}
	if err := m.posts.MarkRemoved(ctx, post.ID, removal); err != nil {
		span.RecordError(err)
		return models.Post{}, fmt.Errorf("remove post: %w", err)
	}
	post.ApplyRemoval(removal)

	m.notify(ctx, post.UserID, models.NotificationPostRemoved, actor.ID, notifications.PostRemovedMessage(reason))
	m.closeFlag(ctx, flagID, actor, "Post removed: "+reason)
	m.record(ctx, actor, "remove_post", "post", post.ID, flagID, reason)
	return post, nil
}

// RemoveMessage hides a chat message. System messages have no sender and
// produce no notification.
func (m *Moderator) RemoveMessage(ctx context.Context, messageID int, actor models.Actor, reason string, flagID *int) (models.Message, error) {
	if err := authorize(actor); err != nil {
		return models.Message{}, err
	}
	ctx, span := tracer.Start(ctx, "moderation.remove_message", trace.WithAttributes(attribute.Int("message_id", messageID)))
	defer span.End()

	reason = removalReason(reason)
	msg, err := m.messages.GetMessage(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}

	removal := models.Removal{ActorID: actor.ID, At: m.now(), Reason: reason}
	if err := m.messages.MarkRemoved(ctx, msg.ID, removal); err != nil {
		span.RecordError(err)
		return models.Message{}, fmt.Errorf("remove message: %w", err)
	}
	msg.ApplyRemoval(removal)

	if msg.SenderID != nil {
		m.notify(ctx, *msg.SenderID, models.NotificationMessageRemoved, actor.ID, notifications.MessageRemovedMessage(reason))
	}
	m.closeFlag(ctx, flagID, actor, "Message removed: "+reason)
	m.record(ctx, actor, "remove_message", "message", msg.ID, flagID, reason)
	return msg, nil
}

// Suspend blocks a user from the site. A reason is mandatory.
func (m *Moderator) Suspend(ctx context.Context, userID int, actor models.Actor, reason string, flagID *int) (models.User, error) {
	if err := authorize(actor); err != nil {
		return models.User{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.User{}, ErrReasonRequired
	}
	ctx, span := tracer.Start(ctx, "moderation.suspend", trace.WithAttributes(attribute.Int("user_id", userID)))
	defer span.End()

	user, err := m.users.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if err := m.profiles.Suspend(ctx, user.ID, actor.ID, reason, m.now()); err != nil {
		span.RecordError(err)
		return models.User{}, fmt.Errorf("suspend user: %w", err)
	}

	m.notify(ctx, user.ID, models.NotificationAccountSuspended, actor.ID, notifications.AccountSuspendedMessage(reason))
	m.closeFlag(ctx, flagID, actor, "User suspended: "+reason)
	m.record(ctx, actor, "suspend_user", "user", user.ID, flagID, reason)
	return user, nil
}

// Reinstate lifts a suspension.
func (m *Moderator) Reinstate(ctx context.Context, userID int, actor models.Actor) (models.User, error) {
	if err := authorize(actor); err != nil {
		return models.User{}, err
	}
	ctx, span := tracer.Start(ctx, "moderation.reinstate", trace.WithAttributes(attribute.Int("user_id", userID)))
	defer span.End()

	user, err := m.users.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if err := m.profiles.Reinstate(ctx, user.ID, actor.ID, m.now()); err != nil {
		span.RecordError(err)
		return models.User{}, fmt.Errorf("reinstate user: %w", err)
	}

	m.notify(ctx, user.ID, models.NotificationAccountReinstated, actor.ID, notifications.AccountReinstatedMessage())
	m.record(ctx, actor, "reinstate_user", "user", user.ID, nil, "")
	return user, nil
}

func (m *Moderator) SuspendedUsers(ctx context.Context, actor models.Actor) ([]models.SuspendedProfile, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	return m.profiles.ListSuspended(ctx)
}

func removalReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return defaultRemovalReason
	}
	return reason
}

func (m *Moderator) notify(ctx context.Context, recipientID int, kind models.NotificationKind, actorID int, message string) {
	if _, err := m.notifier.Notify(ctx, recipientID, kind, &actorID, message); err != nil {
		observability.IncNotificationFailure("store")
		log.Printf("notification failed: kind=%s recipient=%d err=%v", kind, recipientID, err)
	}
}

// closeFlag marks the triggering flag actioned. The content action has
// already been committed and audited, so failures are only logged.
func (m *Moderator) closeFlag(ctx context.Context, flagID *int, actor models.Actor, notes string) {
	if flagID == nil {
		return
	}
	err := m.flags.resolve(ctx, *flagID, actor, models.FlagActioned, notes)
	if err == nil {
		return
	}
	if errors.Is(err, ErrFlagNotFound) || errors.Is(err, ErrFlagAlreadyResolved) {
		log.Printf("flag not closed: flag_id=%d reason=%v", *flagID, err)
		return
	}
	log.Printf("flag close failed: flag_id=%d err=%v", *flagID, err)
}

func (m *Moderator) record(ctx context.Context, actor models.Actor, action, targetType string, targetID int, flagID *int, reason string) {
	observability.IncModerationAction(action)
	m.audit.EmitModeration(ctx, telemetry.ModerationAudit{
		ActorID:    actor.ID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		FlagID:     flagID,
		Reason:     reason,
	})
}
