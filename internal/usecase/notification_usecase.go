package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/domain/timeago"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

type NotificationView struct {
	notification.Notification
	TimeAgo string
}

// NotificationResult is the state after a transition. Persisted is false
// when the write failed and the returned state is only the local one.
type NotificationResult struct {
	Notification NotificationView
	Persisted    bool
}

type Notifications struct {
	repo     repository.NotificationRepository
	logger   *zap.Logger
	rollback bool
	now      func() time.Time
}

type NotificationsOption func(*Notifications)

// WithNotificationRollback reverts the returned state when a write fails.
func WithNotificationRollback() NotificationsOption {
	return func(u *Notifications) { u.rollback = true }
}

func NewNotificationsUsecase(repo repository.NotificationRepository, log *zap.Logger, opts ...NotificationsOption) *Notifications {
	u := &Notifications{repo: repo, logger: logger.OrNop(log), now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Notifications) List(ctx context.Context, sess session.Session, includeHidden bool) ([]NotificationView, error) {
	items, err := u.repo.ListForReceiver(ctx, sess.Receiver(), includeHidden)
	if err != nil {
		u.logger.Error("list notifications failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return nil, ErrInternal
	}
	return u.views(items), nil
}

func (u *Notifications) views(items []notification.Notification) []NotificationView {
	now := u.now()
	out := make([]NotificationView, 0, len(items))
	for _, n := range items {
		out = append(out, u.view(n, now))
	}
	return out
}

func (u *Notifications) view(n notification.Notification, now time.Time) NotificationView {
	return NotificationView{Notification: n, TimeAgo: timeago.NotificationStyle.Since(now, n.CreatedAt)}
}

// Apply performs t on one of the session's notifications. A failed write is
// reported through Persisted, not as an error.
func (u *Notifications) Apply(ctx context.Context, sess session.Session, id int64, t notification.Transition) (NotificationResult, error) {
	if id <= 0 {
		return NotificationResult{}, ErrInvalidInput
	}
	items, err := u.repo.ListForReceiver(ctx, sess.Receiver(), true)
	if err != nil {
		u.logger.Error("load notifications failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return NotificationResult{}, ErrInternal
	}

	var opts []notification.CenterOption
	if u.rollback {
		opts = append(opts, notification.WithRollbackOnFailure())
	}
	center := notification.NewCenter(items, u.repo, u.logger, opts...)

	n, err := center.Apply(ctx, id, t)
	switch {
	case err == nil:
		return NotificationResult{Notification: u.view(n, u.now()), Persisted: true}, nil
	case errors.Is(err, notification.ErrNotPersisted):
		return NotificationResult{Notification: u.view(n, u.now()), Persisted: false}, nil
	case errors.Is(err, notification.ErrNotFound):
		return NotificationResult{}, notification.ErrNotFound
	default:
		return NotificationResult{}, ErrInternal
	}
}

func (u *Notifications) SetRead(ctx context.Context, sess session.Session, id int64, read bool) (NotificationResult, error) {
	t := notification.MarkRead
	if !read {
		t = notification.MarkUnread
	}
	return u.Apply(ctx, sess, id, t)
}

func (u *Notifications) MarkAllRead(ctx context.Context, sess session.Session) (int64, error) {
	n, err := u.repo.MarkAllRead(ctx, sess.Receiver())
	if err != nil {
		u.logger.Error("mark all read failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return 0, ErrInternal
	}
	return n, nil
}

func (u *Notifications) UnreadCount(ctx context.Context, sess session.Session) (int, error) {
	c, err := u.repo.CountUnread(ctx, sess.Receiver())
	if err != nil {
		u.logger.Error("count unread failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return 0, ErrInternal
	}
	return c, nil
}
