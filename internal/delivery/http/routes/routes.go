package routes

import (
	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/delivery/http/handler"
	"teamleopard/internal/delivery/http/middleware"
	v1 "teamleopard/internal/delivery/http/routes/v1"
	"teamleopard/internal/realtime"
)

type Registry struct {
	health   *handler.HealthHandler
	files    *handler.FilesHandler
	realtime *realtime.Handler
	authMw   *middleware.AuthMiddleware
	v1       v1.Handlers
}

func NewRegistry(
	health *handler.HealthHandler,
	files *handler.FilesHandler,
	rt *realtime.Handler,
	authMw *middleware.AuthMiddleware,
	api v1.Handlers,
) *Registry {
	if health == nil {
		health = handler.NewHealthHandler()
	}
	return &Registry{health: health, files: files, realtime: rt, authMw: authMw, v1: api}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerFiles(app)
	r.registerRealtime(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerFiles(app *fiber.App) {
	if r.files != nil {
		r.files.RegisterRoutes(app)
	}
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.realtime != nil {
		app.Get("/ws", r.realtime.HandleChanges)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1, r.authMw)
}
