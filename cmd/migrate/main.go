package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"teamleopard/internal/config"
	"teamleopard/internal/database/migration"
	dbpostgres "teamleopard/internal/database/postgres"
	"teamleopard/internal/database/seeder"
	"teamleopard/internal/pkg/logger"
)

func main() {
	seed := flag.Bool("seed", false, "load demo employers and postings after migrating")
	status := flag.Bool("status", false, "list migrations and exit")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.App.AppName, cfg.App.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, cfg.App.AppName+"-migrate", zl)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: zl}
	if *status {
		states, err := runner.Status(ctx, db.SQLDB())
		if err != nil {
			zl.Fatal("migration status failed", zap.Error(err))
		}
		for _, st := range states {
			fields := []zap.Field{zap.Int64("version", st.Version), zap.String("file", st.Filename), zap.Bool("pending", st.Pending())}
			if st.AppliedAt != nil {
				fields = append(fields, zap.Time("applied_at", *st.AppliedAt))
			}
			zl.Info("migration", fields...)
		}
		return
	}

	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	if *seed {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: zl}).Run(ctx, db); err != nil {
			zl.Fatal("seeding failed", zap.Error(err))
		}
	}
	zl.Info("database ready", zap.Bool("seeded", *seed))
}
