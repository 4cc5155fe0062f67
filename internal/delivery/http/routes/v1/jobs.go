package v1

import (
	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/handler"
)

// RegisterJobs mounts the public job listing.
func RegisterJobs(r fiber.Router, jobsHandler *handler.JobsHandler) {
	if r == nil {
		return
	}
	if jobsHandler == nil {
		return
	}

	jobsHandler.RegisterRoutes(r)
}
