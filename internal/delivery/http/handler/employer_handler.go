package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/dto"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/posting"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

type EmployerService interface {
	CreatePosting(ctx context.Context, sess session.Session, in usecase.PostingInput) (posting.Posting, error)
	UpdatePosting(ctx context.Context, sess session.Session, id int64, in usecase.PostingInput) (posting.Posting, error)
	DeletePosting(ctx context.Context, sess session.Session, id int64) error
	ListPostings(ctx context.Context, sess session.Session) ([]posting.Posting, error)
	ListApplicants(ctx context.Context, sess session.Session, postingID int64) ([]usecase.ApplicantView, error)
	UpdateApplicationStatus(ctx context.Context, sess session.Session, applicationID int64, status string) (string, error)
	Stats(ctx context.Context, sess session.Session) (usecase.DashboardStats, error)
}

type EmployerHandler struct {
	uc EmployerService
}

type postingRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	SalaryRange    string   `json:"salary_range"`
	Status         string   `json:"status"`
	Deadline       string   `json:"deadline"`
	ExpectedSkills []string `json:"expected_skills"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func NewEmployerHandler(uc EmployerService) *EmployerHandler {
	return &EmployerHandler{uc: uc}
}

// RegisterRoutes expects r to be guarded by the employer role.
func (h *EmployerHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/postings", h.ListPostings)
	r.Post("/postings", h.CreatePosting)
	r.Put("/postings/:id", h.UpdatePosting)
	r.Delete("/postings/:id", h.DeletePosting)
	r.Get("/postings/:id/applications", h.ListApplicants)
	r.Patch("/applications/:id/status", h.UpdateApplicationStatus)
	r.Get("/stats", h.Stats)
}

func (req postingRequest) toInput() (usecase.PostingInput, error) {
	in := usecase.PostingInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
		Status:         req.Status,
		ExpectedSkills: req.ExpectedSkills,
	}
	if raw := strings.TrimSpace(req.Deadline); raw != "" {
		d, err := parseDeadline(raw)
		if err != nil {
			return usecase.PostingInput{}, err
		}
		in.Deadline = &d
	}
	return in, nil
}

// parseDeadline accepts RFC 3339 timestamps and plain dates.
func parseDeadline(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

func (h *EmployerHandler) bindPosting(c fiber.Ctx) (usecase.PostingInput, error) {
	var req postingRequest
	if err := c.Bind().Body(&req); err != nil {
		return usecase.PostingInput{}, badRequest(err)
	}
	in, err := req.toInput()
	if err != nil {
		return usecase.PostingInput{}, badRequest(err)
	}
	return in, nil
}

func (h *EmployerHandler) ListPostings(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	items, err := h.uc.ListPostings(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.PostingResponse, 0, len(items))
	for _, p := range items {
		out = append(out, dto.NewPostingResponse(p))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *EmployerHandler) CreatePosting(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}
	in, err := h.bindPosting(c)
	if err != nil {
		return err
	}

	p, err := h.uc.CreatePosting(c.Context(), sess, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Job posting created", dto.NewPostingResponse(p))
}

func (h *EmployerHandler) UpdatePosting(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	in, err := h.bindPosting(c)
	if err != nil {
		return err
	}

	p, err := h.uc.UpdatePosting(c.Context(), sess, id, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job posting updated", dto.NewPostingResponse(p))
}

func (h *EmployerHandler) DeletePosting(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeletePosting(c.Context(), sess, id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job posting deleted", nil)
}

func (h *EmployerHandler) ListApplicants(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListApplicants(c.Context(), sess, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.ApplicantResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewApplicantResponse(it))
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *EmployerHandler) UpdateApplicationStatus(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req statusRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	status, err := h.uc.UpdateApplicationStatus(c.Context(), sess, id, req.Status)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Status updated", fiber.Map{"id": id, "status": status})
}

func (h *EmployerHandler) Stats(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	st, err := h.uc.Stats(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.NewStatsResponse(st))
}
