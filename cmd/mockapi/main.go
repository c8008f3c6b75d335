package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"hermes/internal/config"
	"hermes/internal/database"
	"hermes/internal/database/migration"
	"hermes/internal/http/mockhandler"
	"hermes/internal/http/server"
	"hermes/internal/logging"
	"hermes/internal/otel"
	"hermes/internal/repository/postgres"
	"hermes/internal/seed"
	"hermes/internal/service"
	"hermes/internal/storage"
	"hermes/internal/viewindex"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.Location())
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "hermes-mockapi", log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var objects storage.Storage
	if cfg.MinIO.Endpoint == "" {
		log.Warn("object_storage_in_memory", zap.String("reason", "MINIO_ENDPOINT not set"))
		objects = storage.NewMemory()
	} else {
		objects, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
	}

	directory := postgres.NewDirectoryPostgres(db)
	documents := postgres.NewDocumentPostgres(db)
	projects := postgres.NewProjectPostgres(db)
	views := viewindex.New(objects)

	if cfg.MockAPI.SeedFile != "" {
		fixtures, err := seed.LoadFile(cfg.MockAPI.SeedFile)
		if err != nil {
			return err
		}
		s := &seed.Seeder{Directory: directory, Documents: documents, Projects: projects, Views: views, Log: log}
		if err := s.Apply(ctx, fixtures); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app, err := server.New(log, reg, reg)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	svc := service.NewWorkspaceService(directory, documents, projects, views)
	mockhandler.RegisterRoutes(app, db.PingContext, svc, cfg.MockAPI)

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("mockapi_starting",
		zap.String("default_user", cfg.MockAPI.DefaultUser),
		zap.Strings("fail_emails", cfg.MockAPI.FailEmails),
		zap.Duration("latency", cfg.MockAPI.Latency),
	)
	return server.Serve(ctx, app, ln, log)
}
