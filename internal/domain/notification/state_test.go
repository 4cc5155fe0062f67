package notification

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	err    error
	reads  map[int64]bool
	hidden map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{reads: map[int64]bool{}, hidden: map[int64]bool{}}
}

func (s *fakeStore) SetRead(_ context.Context, id int64, read bool) error {
	if s.err != nil {
		return s.err
	}
	s.reads[id] = read
	return nil
}

func (s *fakeStore) SetHidden(_ context.Context, id int64, hidden bool) error {
	if s.err != nil {
		return s.err
	}
	s.hidden[id] = hidden
	return nil
}

func TestApply_Transitions(t *testing.T) {
	n := Notification{ID: 1}

	n = n.Apply(MarkRead)
	if !n.Read || n.Hidden {
		t.Fatalf("expected read+visible, got %+v", n)
	}
	n = n.Apply(Hide)
	if !n.Read || !n.Hidden {
		t.Fatalf("expected read+hidden, got %+v", n)
	}
	n = n.Apply(MarkUnread)
	if n.Read || !n.Hidden {
		t.Fatalf("expected unread+hidden, got %+v", n)
	}
	n = n.Apply(Restore)
	if n.Read || n.Hidden {
		t.Fatalf("expected unread+visible, got %+v", n)
	}
}

func TestCenter_PersistsByID(t *testing.T) {
	store := newFakeStore()
	c := NewCenter([]Notification{{ID: 7}, {ID: 8}}, store, nil)

	got, err := c.Apply(context.Background(), 8, MarkRead)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.Read {
		t.Fatalf("expected read")
	}
	if !store.reads[8] {
		t.Fatalf("expected store write for id 8")
	}
	if _, ok := store.reads[7]; ok {
		t.Fatalf("unexpected store write for id 7")
	}

	if _, err := c.Apply(context.Background(), 7, Hide); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(c.Visible()) != 1 {
		t.Fatalf("expected one visible notification")
	}
	if c.UnreadCount() != 0 {
		t.Fatalf("expected zero unread visible, got %d", c.UnreadCount())
	}
}

func TestCenter_FailureKeepsOptimisticState(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("boom")
	c := NewCenter([]Notification{{ID: 1}}, store, nil)

	got, err := c.Apply(context.Background(), 1, Hide)
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("expected ErrNotPersisted, got %v", err)
	}
	if !got.Hidden {
		t.Fatalf("expected optimistic hidden state to remain")
	}
	if !c.Items()[0].Hidden {
		t.Fatalf("expected local view to keep hidden state")
	}
}

func TestCenter_RollbackOnFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("boom")
	c := NewCenter([]Notification{{ID: 1}}, store, nil, WithRollbackOnFailure())

	got, err := c.Apply(context.Background(), 1, MarkRead)
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("expected ErrNotPersisted, got %v", err)
	}
	if got.Read || c.Items()[0].Read {
		t.Fatalf("expected rollback to unread")
	}
}

func TestCenter_UnknownID(t *testing.T) {
	c := NewCenter(nil, newFakeStore(), nil)
	if _, err := c.Apply(context.Background(), 99, MarkRead); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
