package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamleopard/internal/delivery/http/dto"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

type ConversationService interface {
	List(ctx context.Context, sess session.Session) ([]usecase.ConversationView, error)
	Reply(ctx context.Context, sess session.Session, in usecase.ReplyInput) (notification.Notification, error)
	StartRequest(ctx context.Context, sess session.Session, in usecase.StartRequestInput) (string, error)
}

type ConversationsHandler struct {
	uc ConversationService
}

type replyRequest struct {
	Link    string `json:"link"`
	Content string `json:"content"`
}

type startRequestRequest struct {
	EmployeeID string `json:"employee_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

func NewConversationsHandler(uc ConversationService) *ConversationsHandler {
	return &ConversationsHandler{uc: uc}
}

func (h *ConversationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/conversations", h.List)
	r.Post("/conversations/reply", h.Reply)
}

// RegisterEmployerRoutes mounts the employer-only endpoint that opens a
// thread.
func (h *ConversationsHandler) RegisterEmployerRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/requests", h.StartRequest)
}

func (h *ConversationsHandler) List(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	items, err := h.uc.List(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ConversationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewConversationResponse(it))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *ConversationsHandler) Reply(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	var req replyRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	n, err := h.uc.Reply(c.Context(), sess, usecase.ReplyInput{Link: req.Link, Content: req.Content})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Reply sent", dto.NewNotificationResponse(usecase.NotificationView{Notification: n}))
}

func (h *ConversationsHandler) StartRequest(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	var req startRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return badRequest(err)
	}

	link, err := h.uc.StartRequest(c.Context(), sess, usecase.StartRequestInput{
		EmployeeID: employeeID,
		Title:      req.Title,
		Content:    req.Content,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Request sent", fiber.Map{"link": link})
}
