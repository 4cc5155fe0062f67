package v1

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterUsers mounts the endpoints shared by both roles. r must already
// require a session.
func RegisterUsers(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Session != nil {
		h.Session.RegisterRoutes(r)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(r)
	}
	if h.Notifications != nil {
		h.Notifications.RegisterRoutes(r.Group("/notifications"))
	}
	if h.Conversations != nil {
		h.Conversations.RegisterRoutes(r)
	}
}
