package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/dto"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

type NotificationService interface {
	List(ctx context.Context, sess session.Session, includeHidden bool) ([]usecase.NotificationView, error)
	Apply(ctx context.Context, sess session.Session, id int64, t notification.Transition) (usecase.NotificationResult, error)
	SetRead(ctx context.Context, sess session.Session, id int64, read bool) (usecase.NotificationResult, error)
	MarkAllRead(ctx context.Context, sess session.Session) (int64, error)
	UnreadCount(ctx context.Context, sess session.Session) (int, error)
}

type NotificationsHandler struct {
	uc NotificationService
}

type setReadRequest struct {
	Read *bool `json:"read"`
}

func NewNotificationsHandler(uc NotificationService) *NotificationsHandler {
	return &NotificationsHandler{uc: uc}
}

func (h *NotificationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/unread-count", h.UnreadCount)
	r.Post("/read-all", h.MarkAllRead)
	r.Patch("/:id/read", h.SetRead)
	r.Post("/:id/hide", h.transition(notification.Hide))
	r.Post("/:id/restore", h.transition(notification.Restore))
}

func (h *NotificationsHandler) List(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	includeHidden := false
	if raw := c.Query("include_hidden"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(err)
		}
		includeHidden = v
	}

	items, err := h.uc.List(c.Context(), sess, includeHidden)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.NotificationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewNotificationResponse(it))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *NotificationsHandler) UnreadCount(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	n, err := h.uc.UnreadCount(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"unread": n})
}

func (h *NotificationsHandler) MarkAllRead(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	n, err := h.uc.MarkAllRead(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"updated": n})
}

func (h *NotificationsHandler) SetRead(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req setReadRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
	}
	read := true
	if req.Read != nil {
		read = *req.Read
	}

	res, err := h.uc.SetRead(c.Context(), sess, id, read)
	if err != nil {
		return mapUsecaseError(err)
	}
	return updateResponse(c, res)
}

func (h *NotificationsHandler) transition(t notification.Transition) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess, ok := middleware.SessionFrom(c)
		if !ok {
			return requireSession(c)
		}
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		res, err := h.uc.Apply(c.Context(), sess, id, t)
		if err != nil {
			return mapUsecaseError(err)
		}
		return updateResponse(c, res)
	}
}

// updateResponse answers 200 even when the write was not persisted; the
// persisted flag tells the portal whether to retry.
func updateResponse(c fiber.Ctx, res usecase.NotificationResult) error {
	msg := "success"
	if !res.Persisted {
		msg = "not persisted"
	}
	return response.Success(c, fiber.StatusOK, msg, dto.NotificationUpdateResponse{
		Notification: dto.NewNotificationResponse(res.Notification),
		Persisted:    res.Persisted,
	})
}
