package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"community-service/internal/config"
	"community-service/internal/models"
	"community-service/internal/observability"
	"community-service/internal/repositories"
	"community-service/internal/telemetry"
	"community-service/internal/validation"
)

var tracer = otel.Tracer("community-service/moderation")

const (
	defaultDismissNotes = "No violation found"
	recentReviewLimit   = 10
)

// FileInput is a user report against a piece of content.
type FileInput struct {
	ContentType models.ContentType `json:"content_type" validate:"required,oneof=post message profile"`
	ContentID   int                `json:"content_id" validate:"gt=0"`
	Reason      models.FlagReason  `json:"reason" validate:"omitempty,oneof=spam harassment inappropriate misinformation other"`
	Description string             `json:"description" validate:"max=2000"`
}

// Flags owns the flag lifecycle: filing, resolving the flagged content and
// closing flags.
type Flags struct {
	flags    repositories.FlagRepository
	posts    repositories.PostRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	validate *validation.Validator
	audit    *telemetry.AuditEmitter
	policy   config.FlagResolutionPolicy
	now      func() time.Time
}

func NewFlags(
	flags repositories.FlagRepository,
	posts repositories.PostRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	validate *validation.Validator,
	audit *telemetry.AuditEmitter,
	policy config.FlagResolutionPolicy,
) *Flags {
	return &Flags{
		flags:    flags,
		posts:    posts,
		messages: messages,
		users:    users,
		profiles: profiles,
		validate: validate,
		audit:    audit,
		policy:   policy,
		now:      time.Now,
	}
}

// File records a pending flag. The target is not checked for existence.
func (f *Flags) File(ctx context.Context, reporterID int, in FileInput) (models.Flag, error) {
	if err := f.validate.Struct(in); err != nil {
		return models.Flag{}, err
	}
	if in.Reason == "" {
		in.Reason = models.FlagReasonOther
	}

	flag, err := f.flags.Create(ctx, models.Flag{
		ReporterID:  reporterID,
		ContentType: in.ContentType,
		ContentID:   in.ContentID,
		Reason:      in.Reason,
		Description: in.Description,
	})
	if err != nil {
		return models.Flag{}, fmt.Errorf("create flag: %w", err)
	}
	observability.IncFlagFiled(string(flag.ContentType))
	return flag, nil
}

func (f *Flags) Get(ctx context.Context, flagID int) (models.Flag, error) {
	flag, err := f.flags.Get(ctx, flagID)
	if errors.Is(err, repositories.ErrFlagNotFound) {
		return models.Flag{}, ErrFlagNotFound
	}
	return flag, err
}

// ResolveContent loads the object a flag points at. A dangling reference
// yields ErrContentNotFound.
func (f *Flags) ResolveContent(ctx context.Context, flag models.Flag) (models.FlaggedContent, error) {
	switch flag.ContentType {
	case models.ContentPost:
		post, err := f.posts.GetPost(ctx, flag.ContentID)
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrContentNotFound
		}
		if err != nil {
			return nil, err
		}
		return models.PostContent{Post: post}, nil

	case models.ContentMessage:
		msg, err := f.messages.GetMessage(ctx, flag.ContentID)
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return nil, ErrContentNotFound
		}
		if err != nil {
			return nil, err
		}
		return models.MessageContent{Message: msg}, nil

	case models.ContentProfile:
		info, err := f.users.GetUserInfo(ctx, flag.ContentID)
		if errors.Is(err, repositories.ErrUserInfoNotFound) {
			return nil, ErrContentNotFound
		}
		if err != nil {
			return nil, err
		}
		content := models.ProfileContent{Info: info}
		owner, err := f.users.GetUserByUsername(ctx, info.Username)
		switch {
		case err == nil:
			content.Owner = &owner
		case !errors.Is(err, repositories.ErrUserNotFound):
			return nil, err
		}
		return content, nil
	}
	return nil, ErrContentNotFound
}

// FlaggedUserID returns the owner of the flagged content, if any.
func (f *Flags) FlaggedUserID(ctx context.Context, flag models.Flag) (int, bool) {
	content, err := f.ResolveContent(ctx, flag)
	if err != nil {
		return 0, false
	}
	return content.OwnerID()
}

// Dismiss closes a flag without action.
func (f *Flags) Dismiss(ctx context.Context, flagID int, actor models.Actor, notes string) error {
	if notes == "" {
		notes = defaultDismissNotes
	}
	if err := f.resolve(ctx, flagID, actor, models.FlagDismissed, notes); err != nil {
		return err
	}
	f.record(ctx, actor, "dismiss_flag", flagID, notes)
	return nil
}

// MarkActioned closes a flag after a moderator acted on its content.
func (f *Flags) MarkActioned(ctx context.Context, flagID int, actor models.Actor, notes string) error {
	if err := f.resolve(ctx, flagID, actor, models.FlagActioned, notes); err != nil {
		return err
	}
	f.record(ctx, actor, "mark_actioned", flagID, notes)
	return nil
}

func (f *Flags) record(ctx context.Context, actor models.Actor, action string, flagID int, notes string) {
	observability.IncModerationAction(action)
	f.audit.EmitModeration(ctx, telemetry.ModerationAudit{
		ActorID:    actor.ID,
		Action:     action,
		TargetType: "flag",
		TargetID:   flagID,
		Reason:     notes,
	})
}

func (f *Flags) resolve(ctx context.Context, flagID int, actor models.Actor, status models.FlagStatus, notes string) error {
	if err := authorize(actor); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "moderation.resolve_flag")
	defer span.End()

	err := f.flags.Resolve(ctx, flagID, models.FlagResolution{
		Status:     status,
		ReviewerID: actor.ID,
		ReviewedAt: f.now(),
		Notes:      notes,
	}, f.policy == config.PolicyReject)
	switch {
	case errors.Is(err, repositories.ErrFlagNotFound):
		return ErrFlagNotFound
	case errors.Is(err, repositories.ErrFlagNotPending):
		return ErrFlagAlreadyResolved
	case err != nil:
		span.RecordError(err)
		return fmt.Errorf("resolve flag: %w", err)
	}
	observability.IncFlagResolved(string(status))
	return nil
}

// PendingItem is a pending flag with its target resolved for review.
// Content is nil when the target no longer exists.
type PendingItem struct {
	Flag          models.Flag           `json:"flag"`
	Content       models.FlaggedContent `json:"content,omitempty"`
	FlaggedUserID *int                  `json:"flagged_user_id,omitempty"`
}

type Dashboard struct {
	Pending          []PendingItem `json:"pending"`
	RecentlyReviewed []models.Flag `json:"recently_reviewed"`
	ReviewedToday    int           `json:"reviewed_today"`
	SuspendedUsers   int           `json:"suspended_users"`
}

func (f *Flags) Dashboard(ctx context.Context, actor models.Actor) (Dashboard, error) {
	if err := authorize(actor); err != nil {
		return Dashboard{}, err
	}

	pending, err := f.flags.ListByStatus(ctx, models.FlagPending)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list pending flags: %w", err)
	}
	recent, err := f.flags.ListRecentlyReviewed(ctx, recentReviewLimit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list reviewed flags: %w", err)
	}
	now := f.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := f.flags.CountReviewedSince(ctx, startOfDay)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count reviewed flags: %w", err)
	}
	suspended, err := f.profiles.CountSuspended(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count suspended users: %w", err)
	}

	items := make([]PendingItem, 0, len(pending))
	for _, flag := range pending {
		item := PendingItem{Flag: flag}
		content, err := f.ResolveContent(ctx, flag)
		if err == nil {
			item.Content = content
			if owner, ok := content.OwnerID(); ok {
				item.FlaggedUserID = &owner
			}
		} else if !errors.Is(err, ErrContentNotFound) {
			return Dashboard{}, fmt.Errorf("resolve flag %d: %w", flag.ID, err)
		}
		items = append(items, item)
	}

	return Dashboard{
		Pending:          items,
		RecentlyReviewed: recent,
		ReviewedToday:    today,
		SuspendedUsers:   suspended,
	}, nil
}
