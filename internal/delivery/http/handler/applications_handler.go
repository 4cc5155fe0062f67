package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/dto"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/application"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

type ApplicationService interface {
	Submit(ctx context.Context, sess session.Session, in usecase.SubmitInput) (application.Application, error)
	ListMine(ctx context.Context, sess session.Session) ([]usecase.ApplicationView, error)
	ListResumes(ctx context.Context, sess session.Session) ([]usecase.StoredResume, error)
}

type ApplicationsHandler struct {
	uc ApplicationService
}

func NewApplicationsHandler(uc ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{uc: uc}
}

func (h *ApplicationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/applications", h.Submit)
	r.Get("/applications", h.ListMine)
	r.Get("/resumes", h.ListResumes)
}

// Submit accepts multipart/form-data with job_posting_id, cover_letter and
// either a resume file or the resume_path of an earlier upload.
func (h *ApplicationsHandler) Submit(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	postingID, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("job_posting_id")), 10, 64)
	if err != nil {
		return badRequest(err)
	}

	in := usecase.SubmitInput{
		PostingID:   postingID,
		CoverLetter: c.FormValue("cover_letter"),
		ResumePath:  c.FormValue("resume_path"),
	}

	if fh, err := c.FormFile("resume"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return badRequest(err)
		}
		defer f.Close()
		in.Resume = &usecase.ResumeUpload{FileName: fh.Filename, Content: f}
	}

	created, err := h.uc.Submit(c.Context(), sess, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted", dto.NewCreatedApplicationResponse(created))
}

func (h *ApplicationsHandler) ListMine(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	items, err := h.uc.ListMine(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ApplicationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewApplicationResponse(it))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *ApplicationsHandler) ListResumes(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	items, err := h.uc.ListResumes(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ResumeResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewResumeResponse(it))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}
