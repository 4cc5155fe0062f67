package realtime

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"teamleopard/internal/domain/session"
)

type SessionResolver interface {
	Resolve(ctx context.Context, accessToken string) (session.Session, error)
}

type Handler struct {
	hub      *Hub
	sessions SessionResolver
	logger   *zap.Logger
}

func NewHandler(hub *Hub, sessions SessionResolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, sessions: sessions, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleChanges upgrades to a websocket that streams ChangeEvents.
// Query: table (required), event (optional, default *), token (optional;
// required to receive rows addressed to a user).
func (h *Handler) HandleChanges(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	table := strings.TrimSpace(c.Query("table"))
	if !KnownTable(table) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown table")
	}
	event, ok := ParseEventType(c.Query("event"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unknown event")
	}

	filter := Filter{Table: table, Event: event}
	if tok := strings.TrimSpace(c.Query("token")); tok != "" && h.sessions != nil {
		sess, err := h.sessions.Resolve(c.Context(), tok)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		uid := sess.UserID
		filter.UserID = &uid
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("WS upgrade error", zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn, filter)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
