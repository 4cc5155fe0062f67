package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/pkg/response"
)

// HealthCheck probes one dependency. Optional checks report "degraded"
// instead of failing the endpoint.
type HealthCheck struct {
	Name     string
	Check    func(ctx context.Context) error
	Optional bool
}

type HealthHandler struct {
	checks []HealthCheck
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	components := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if chk.Check == nil {
			continue
		}
		if err := chk.Check(ctx); err != nil {
			if chk.Optional {
				components[chk.Name] = "degraded"
				continue
			}
			components[chk.Name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		components[chk.Name] = "up"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "unhealthy", components)
	}
	return response.Success(c, status, response.MessageOK, components)
}
