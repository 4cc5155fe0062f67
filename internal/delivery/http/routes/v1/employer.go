package v1

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterEmployer(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Employer != nil {
		h.Employer.RegisterRoutes(r)
	}
	if h.Conversations != nil {
		h.Conversations.RegisterEmployerRoutes(r)
	}
}
