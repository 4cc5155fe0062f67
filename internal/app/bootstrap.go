package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"teamleopard/internal/config"
	"teamleopard/internal/delivery/http/handler"
	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/delivery/http/routes"
	v1 "teamleopard/internal/delivery/http/routes/v1"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/realtime"
)

// Resume uploads are the largest request bodies.
const bodyLimit = 10 * 1024 * 1024

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	log = logger.OrNop(log)
	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	health := handler.NewHealthHandler(
		handler.HealthCheck{Name: "database", Check: c.DB.Ping},
		handler.HealthCheck{Name: "redis", Check: c.Redis.Ping, Optional: true},
	)

	api := v1.Handlers{
		Auth:          handler.NewAuthHandler(c.Auth),
		Session:       handler.NewSessionHandler(),
		Jobs:          handler.NewJobsHandler(c.Jobs),
		Applications:  handler.NewApplicationsHandler(c.Applications),
		Notifications: handler.NewNotificationsHandler(c.Notifications),
		Conversations: handler.NewConversationsHandler(c.Conversations),
		Employer:      handler.NewEmployerHandler(c.Employer),
		SavedJobs:     handler.NewSavedJobsHandler(c.SavedJobs),
		Profile:       handler.NewProfileHandler(c.Profiles),
	}

	routes.NewRegistry(
		health,
		handler.NewFilesHandler(c.Files),
		realtime.NewHandler(c.Hub, c.Sessions, c.Logger),
		middleware.NewAuthMiddleware(c.Sessions),
		api,
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
