package notification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotPersisted is returned together with the optimistic state when the
// store rejected the write.
var ErrNotPersisted = errors.New("notification change not persisted")

type Transition int

const (
	MarkRead Transition = iota + 1
	MarkUnread
	Hide
	Restore
)

func (t Transition) String() string {
	switch t {
	case MarkRead:
		return "mark_read"
	case MarkUnread:
		return "mark_unread"
	case Hide:
		return "hide"
	case Restore:
		return "restore"
	default:
		return "unknown"
	}
}

// Apply returns n after the transition. Read and hidden are independent axes.
func (n Notification) Apply(t Transition) Notification {
	switch t {
	case MarkRead:
		n.Read = true
	case MarkUnread:
		n.Read = false
	case Hide:
		n.Hidden = true
	case Restore:
		n.Hidden = false
	}
	return n
}

// Store persists single-column updates keyed by notification id.
type Store interface {
	SetRead(ctx context.Context, id int64, read bool) error
	SetHidden(ctx context.Context, id int64, hidden bool) error
}

type CenterOption func(*Center)

// WithRollbackOnFailure reverts the local change when the store write fails.
// Off by default: failed writes leave the optimistic state in place.
func WithRollbackOnFailure() CenterOption {
	return func(c *Center) { c.rollbackOnFailure = true }
}

// Center is the local view of one receiver's notifications. Changes are
// applied to the view first and persisted afterwards.
type Center struct {
	items  []Notification
	index  map[int64]int
	store  Store
	logger *zap.Logger

	rollbackOnFailure bool
}

func NewCenter(items []Notification, store Store, logger *zap.Logger, opts ...CenterOption) *Center {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Center{
		items:  append([]Notification(nil), items...),
		index:  make(map[int64]int, len(items)),
		store:  store,
		logger: logger,
	}
	for i, n := range c.items {
		c.index[n.ID] = i
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply performs t on notification id. The returned notification is the
// local state after the call, which still carries the optimistic change when
// the error is ErrNotPersisted unless rollback was requested.
func (c *Center) Apply(ctx context.Context, id int64, t Transition) (Notification, error) {
	i, ok := c.index[id]
	if !ok {
		return Notification{}, ErrNotFound
	}

	prev := c.items[i]
	next := prev.Apply(t)
	c.items[i] = next

	if err := c.persist(ctx, next, t); err != nil {
		c.logger.Error("notification update failed",
			zap.Int64("notification_id", id),
			zap.String("transition", t.String()),
			zap.Bool("rolled_back", c.rollbackOnFailure),
			zap.Error(err),
		)
		if c.rollbackOnFailure {
			c.items[i] = prev
		}
		return c.items[i], fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return next, nil
}

func (c *Center) persist(ctx context.Context, n Notification, t Transition) error {
	if c.store == nil {
		return errors.New("nil notification store")
	}
	switch t {
	case MarkRead, MarkUnread:
		return c.store.SetRead(ctx, n.ID, n.Read)
	case Hide, Restore:
		return c.store.SetHidden(ctx, n.ID, n.Hidden)
	default:
		return fmt.Errorf("unknown transition %d", t)
	}
}

func (c *Center) Items() []Notification {
	return append([]Notification(nil), c.items...)
}

func (c *Center) Visible() []Notification {
	out := make([]Notification, 0, len(c.items))
	for _, n := range c.items {
		if !n.Hidden {
			out = append(out, n)
		}
	}
	return out
}

func (c *Center) UnreadCount() int {
	total := 0
	for _, n := range c.items {
		if !n.Read && !n.Hidden {
			total++
		}
	}
	return total
}
