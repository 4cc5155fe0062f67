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

type ProfileService interface {
	Get(ctx context.Context, sess session.Session) (usecase.Profile, error)
	Update(ctx context.Context, sess session.Session, in usecase.ProfileInput) (usecase.Profile, error)
}

type ProfileHandler struct {
	uc ProfileService
}

type updateProfileRequest struct {
	Username           string `json:"username"`
	PhoneNumber        string `json:"phone_number"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Bio                string `json:"bio"`
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
}

func NewProfileHandler(uc ProfileService) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.Get)
	r.Put("/profile", h.Update)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	p, err := h.uc.Get(c.Context(), sess)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) Update(c fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return requireSession(c)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	p, err := h.uc.Update(c.Context(), sess, usecase.ProfileInput{
		Username:           req.Username,
		PhoneNumber:        req.PhoneNumber,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Bio:                req.Bio,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", dto.NewProfileResponse(p))
}
