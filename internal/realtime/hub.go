package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub owns the set of connected websocket clients and forwards change events
// to the clients whose filter matches.
type Hub struct {
	clients    map[*Client]bool
	events     chan ChangeEvent
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		events:     make(chan ChangeEvent, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("WS connected",
				zap.String("table", client.filter.Table),
				zap.Int("total_clients", total),
			)

		case client := <-h.unregister:
			h.remove(client)

		case evt := <-h.events:
			h.fanOut(evt)
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Debug("WS disconnected", zap.Int("total_clients", total))
}

func (h *Hub) fanOut(evt ChangeEvent) {
	h.mutex.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.filter.Matches(evt) {
			targets = append(targets, c)
		}
	}
	h.mutex.RUnlock()

	if len(targets) == 0 {
		return
	}

	message, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("WS marshal event failed", zap.Error(err))
		return
	}

	var slow []*Client
	for _, client := range targets {
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}
	for _, c := range slow {
		h.remove(c)
	}

	h.logger.Debug("WS broadcast",
		zap.String("table", evt.Table),
		zap.String("event", string(evt.Event)),
		zap.Int("clients", len(targets)),
		zap.Int("dropped", len(slow)),
	)
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Dispatch queues evt for fan-out. It never blocks; events are dropped when
// the queue is full.
func (h *Hub) Dispatch(evt ChangeEvent) {
	if h == nil {
		return
	}
	select {
	case h.events <- evt:
	default:
		h.logger.Warn("WS event dropped", zap.String("reason", "buffer_full"), zap.String("table", evt.Table))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
