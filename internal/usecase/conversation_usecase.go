package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/domain/timeago"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

type MessageView struct {
	NotificationView
	// Mine marks messages the viewer sent.
	Mine bool
}

type ConversationView struct {
	Link     string
	Title    string
	Messages []MessageView
	Unread   int
}

type StartRequestInput struct {
	EmployeeID uuid.UUID
	Title      string
	Content    string
}

type ReplyInput struct {
	Link    string
	Content string
}

type Conversations struct {
	notifications repository.NotificationRepository
	employees     repository.EmployeeRepository
	logger        *zap.Logger
	now           func() time.Time
}

func NewConversationsUsecase(notifications repository.NotificationRepository, employees repository.EmployeeRepository, log *zap.Logger) *Conversations {
	return &Conversations{notifications: notifications, employees: employees, logger: logger.OrNop(log), now: time.Now}
}

func (u *Conversations) List(ctx context.Context, sess session.Session) ([]ConversationView, error) {
	items, err := u.notifications.ListRequestThreads(ctx, sess.Receiver())
	if err != nil {
		u.logger.Error("list request threads failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return nil, ErrInternal
	}

	visible := items[:0:0]
	for _, n := range items {
		if !n.Hidden {
			visible = append(visible, n)
		}
	}

	now := u.now()
	me := sess.Receiver()
	convs := notification.Conversations(visible)
	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		v := ConversationView{Link: c.Link, Messages: make([]MessageView, 0, len(c.Messages))}
		if len(c.Messages) > 0 {
			v.Title = c.Messages[0].Title
		}
		for _, m := range c.Messages {
			toMe := m.AddressedTo(me)
			if toMe && !m.Read {
				v.Unread++
			}
			v.Messages = append(v.Messages, MessageView{
				NotificationView: NotificationView{
					Notification: m,
					TimeAgo:      timeago.NotificationStyle.Since(now, m.CreatedAt),
				},
				Mine: m.SentBy(me),
			})
		}
		out = append(out, v)
	}
	return out, nil
}

// Reply posts content into the thread at link. An employee's reply goes to
// the first employer found in the thread and is sent without a receiver when
// there is none.
func (u *Conversations) Reply(ctx context.Context, sess session.Session, in ReplyInput) (notification.Notification, error) {
	link := strings.TrimSpace(in.Link)
	content := strings.TrimSpace(in.Content)
	if !notification.IsRequestLink(link) || content == "" {
		return notification.Notification{}, ErrInvalidInput
	}

	items, err := u.notifications.ListRequestThreads(ctx, sess.Receiver())
	if err != nil {
		u.logger.Error("load request thread failed", zap.String("link", link), zap.Error(err))
		return notification.Notification{}, ErrInternal
	}
	thread := notification.GroupByLink(items)[link]

	title := "Reply"
	if len(thread) > 0 && thread[0].Title != "" {
		title = "Re: " + strings.TrimPrefix(thread[0].Title, "Re: ")
	}

	n := notification.Notification{Title: title, Content: content, Link: link}
	if sess.IsEmployer() {
		n.EmployeeReceiverID = notification.EmployeeRecipient(thread)
	} else {
		n.EmployerReceiverID = notification.ReplyRecipient(thread)
	}
	if n.EmployeeReceiverID == nil && n.EmployerReceiverID == nil {
		u.logger.Warn("reply has no recipient", zap.String("link", link), zap.Stringer("user_id", sess.UserID))
	}

	created, err := u.notifications.Create(ctx, n)
	if err != nil {
		u.logger.Error("send reply failed", zap.String("link", link), zap.Error(err))
		return notification.Notification{}, ErrInternal
	}
	return created, nil
}

// StartRequest opens a thread from an employer to an employee. A hidden,
// read copy addressed to the employer records the employer in the thread so
// replies can find their way back.
func (u *Conversations) StartRequest(ctx context.Context, sess session.Session, in StartRequestInput) (string, error) {
	if !sess.IsEmployer() {
		return "", ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if in.EmployeeID == uuid.Nil || title == "" || content == "" {
		return "", ErrInvalidInput
	}

	exists, err := u.employees.Exists(ctx, in.EmployeeID)
	if err != nil {
		u.logger.Error("check employee failed", zap.Error(err))
		return "", ErrInternal
	}
	if !exists {
		return "", employee.ErrNotFound
	}

	link := notification.NewRequestLink(uuid.New())
	if _, err := u.notifications.Create(ctx, notification.New(notification.EmployeeReceiver(in.EmployeeID), title, content, link)); err != nil {
		u.logger.Error("send request failed", zap.String("link", link), zap.Error(err))
		return "", ErrInternal
	}

	sent := notification.New(notification.EmployerReceiver(sess.UserID), title, content, link)
	sent.Read = true
	sent.Hidden = true
	if _, err := u.notifications.Create(ctx, sent); err != nil {
		// The request itself was delivered.
		u.logger.Warn("store sent copy failed", zap.String("link", link), zap.Error(err))
	}
	return link, nil
}
