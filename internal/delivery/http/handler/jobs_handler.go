package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamleopard/internal/delivery/http/dto"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

type JobsHandler struct {
	uc usecase.JobListUsecase
}

func NewJobsHandler(uc usecase.JobListUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.HandleListJobs)
	r.Get("/jobs/:id", h.HandleGetJob)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return badRequest(err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return badRequest(err)
	}
	minSalary, err := parseQueryFloat(c, "min_salary")
	if err != nil {
		return badRequest(err)
	}
	maxSalary, err := parseQueryFloat(c, "max_salary")
	if err != nil {
		return badRequest(err)
	}

	params := usecase.JobListParams{
		EmploymentType: c.Query("employment_type"),
		MinSalary:      minSalary,
		MaxSalary:      maxSalary,
		Query:          c.Query("q"),
		Limit:          limit,
		Offset:         offset,
	}
	if raw := strings.TrimSpace(c.Query("company_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(err)
		}
		params.CompanyID = &id
	}

	items, err := h.uc.ListJobs(c.Context(), params)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.JobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewJobResponse(it))
	}

	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	it, err := h.uc.GetJob(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.NewJobResponse(it))
}
