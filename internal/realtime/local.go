package realtime

import (
	"context"
	"sync"
	"time"
)

// LocalBroker delivers events in-process. Handlers run synchronously on the
// publishing goroutine and must not block.
type LocalBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]EventFunc
	closed bool
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: map[string]map[int]EventFunc{}}
}

func (b *LocalBroker) Publish(_ context.Context, evt ChangeEvent) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	handlers := make([]EventFunc, 0, len(b.subs[evt.Table])+len(b.subs[AnyTable]))
	for _, h := range b.subs[evt.Table] {
		handlers = append(handlers, h)
	}
	if evt.Table != AnyTable {
		for _, h := range b.subs[AnyTable] {
			handlers = append(handlers, h)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
	return nil
}

func (b *LocalBroker) Subscribe(table string, fn EventFunc) (func() error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[table] == nil {
		b.subs[table] = map[int]EventFunc{}
	}
	b.subs[table][id] = fn

	return func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[table], id)
		return nil
	}, nil
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[string]map[int]EventFunc{}
	return nil
}
