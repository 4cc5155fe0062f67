package v1

import (
	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/handler"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/session"
)

// Handlers are the API v1 handlers built by the application container.
type Handlers struct {
	Auth          *handler.AuthHandler
	Session       *handler.SessionHandler
	Jobs          *handler.JobsHandler
	Applications  *handler.ApplicationsHandler
	Notifications *handler.NotificationsHandler
	Conversations *handler.ConversationsHandler
	Employer      *handler.EmployerHandler
	SavedJobs     *handler.SavedJobsHandler
	Profile       *handler.ProfileHandler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	RegisterJobs(r, h.Jobs)

	protected := r.Group("", authMw.Middleware())
	RegisterUsers(protected, h)

	RegisterEmployer(protected.Group("/employer", middleware.RequireRole(session.RoleEmployer)), h)

	// Guarded per prefix; an empty-prefix group would also catch /employer.
	employeeOnly := middleware.RequireRole(session.RoleEmployee)
	for _, prefix := range []string{"/applications", "/resumes", "/saved-jobs"} {
		protected.Use(prefix, employeeOnly)
	}
	if h.Applications != nil {
		h.Applications.RegisterRoutes(protected)
	}
	if h.SavedJobs != nil {
		h.SavedJobs.RegisterRoutes(protected.Group("/saved-jobs"))
	}
}
