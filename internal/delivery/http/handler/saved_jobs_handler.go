package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/dto"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

type SavedJobService interface {
	Toggle(ctx context.Context, sess session.Session, postingID int64) (bool, error)
	List(ctx context.Context, sess session.Session) ([]usecase.SavedJobView, error)
}

type SavedJobsHandler struct {
	uc SavedJobService
}

func NewSavedJobsHandler(uc SavedJobService) *SavedJobsHandler {
	return &SavedJobsHandler{uc: uc}
}

func (h *SavedJobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/:postingId/toggle", h.Toggle)
}

func (h *SavedJobsHandler) Toggle(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}
	id, err := parseIDParam(c, "postingId")
	if err != nil {
		return err
	}

	saved, err := h.uc.Toggle(c.Context(), sess, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"job_posting_id": id, "saved": saved})
}

func (h *SavedJobsHandler) List(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	items, err := h.uc.List(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.SavedJobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewSavedJobResponse(it))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}
