package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/dto"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

type AuthService interface {
	SignUp(ctx context.Context, in usecase.SignUpInput) (usecase.AuthResult, error)
	SignIn(ctx context.Context, in usecase.SignInInput) (usecase.AuthResult, error)
	SignOut(ctx context.Context, accessToken string) error
}

type AuthHandler struct {
	uc AuthService
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc AuthService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/signup", h.SignUp)
	r.Post("/signin", h.SignIn)
	r.Post("/signout", h.SignOut)
}

func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var req signUpRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	res, err := h.uc.SignUp(c.Context(), usecase.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		Role:        session.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewAuthResponse(res))
}

func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var req signInRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	res, err := h.uc.SignIn(c.Context(), usecase.SignInInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAuthResponse(res))
}

func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get("Authorization"))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	if err := h.uc.SignOut(c.Context(), tok); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"redirect": session.LoginRoute})
}
