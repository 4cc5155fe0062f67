package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"teamleopard/internal/config"
	"teamleopard/internal/database"
	dbpostgres "teamleopard/internal/database/postgres"
	"teamleopard/internal/infrastructure/authclient"
	"teamleopard/internal/infrastructure/cache"
	"teamleopard/internal/infrastructure/storage"
	"teamleopard/internal/pkg/jwt"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/realtime"
	"teamleopard/internal/repository"
	"teamleopard/internal/usecase"
)

// Container owns the long-lived dependencies of the API process.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB     database.DB
	Redis  *cache.Redis
	Broker realtime.Broker
	Hub    *realtime.Hub
	Files  *storage.FileStore

	Sessions      *usecase.Sessions
	Auth          *usecase.Auth
	Jobs          *usecase.JobList
	Applications  *usecase.Applications
	Notifications *usecase.Notifications
	Conversations *usecase.Conversations
	Employer      *usecase.EmployerDashboard
	SavedJobs     *usecase.SavedJobs
	Profiles      *usecase.Profiles

	unsubscribe []func() error
	stopHub     context.CancelFunc
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, cfg.App.AppName, log)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log, DB: db}

	c.Redis = cache.NewRedis(cfg.Redis, log)

	if cfg.NATS.URL != "" {
		nb, err := realtime.NewNATSBroker(cfg.NATS, cfg.App.AppName, log)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Broker = nb
	} else {
		log.Info("NATS_URL not set, using in-process change broker")
		c.Broker = realtime.NewLocalBroker()
	}

	files, err := storage.NewFileStore(cfg.Storage, cfg.App.PublicURL)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Files = files

	employees := repository.NewPostgresEmployeeRepository(db, c.Broker, log)
	employers := repository.NewPostgresEmployerRepository(db, c.Broker, log)
	postings := repository.NewPostgresPostingRepository(db, c.Broker, log)
	applications := repository.NewPostgresApplicationRepository(db, c.Broker, log)
	saved := repository.NewPostgresSavedJobRepository(db, c.Broker, log)
	notifications := repository.NewPostgresNotificationRepository(db, c.Broker, log)
	stats := repository.NewPostgresStatsRepository(db)

	authClient := authclient.New(cfg.Auth, log)
	verifier := jwt.NewHMACService(cfg.Auth.JWTSecret)
	provisioner := usecase.NewEmployeeProvisioner(employees, authClient, log)

	c.Sessions = usecase.NewSessions(verifier, employers, log)
	c.Auth = usecase.NewAuthUsecase(authClient, employees, employers, log)
	c.Jobs = usecase.NewJobListUsecase(postings, c.Redis, log)
	c.Applications = usecase.NewApplicationsUsecase(applications, postings, notifications, provisioner, files, cfg.Storage.URLTTL, log)
	c.Notifications = usecase.NewNotificationsUsecase(notifications, log)
	c.Conversations = usecase.NewConversationsUsecase(notifications, employees, log)
	c.Employer = usecase.NewEmployerDashboard(postings, applications, notifications, stats, files, cfg.Storage.URLTTL, log)
	c.SavedJobs = usecase.NewSavedJobsUsecase(saved, postings, provisioner, log)
	c.Profiles = usecase.NewProfilesUsecase(employees, employers, provisioner, log)

	hubCtx, stop := context.WithCancel(context.Background())
	c.Hub = realtime.NewHub(log)
	c.stopHub = stop
	go c.Hub.Run(hubCtx)

	if err := c.subscribe(realtime.TableJobPosting, c.Jobs.OnPostingChange); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.subscribe(realtime.AnyTable, c.Hub.Dispatch); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Container) subscribe(table string, fn realtime.EventFunc) error {
	unsub, err := c.Broker.Subscribe(table, fn)
	if err != nil {
		return err
	}
	c.unsubscribe = append(c.unsubscribe, unsub)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	for _, unsub := range c.unsubscribe {
		if err := unsub(); err != nil {
			errs = append(errs, err)
		}
	}
	c.unsubscribe = nil

	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Broker != nil {
		if err := c.Broker.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
