package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"hermes/docs"
	"hermes/internal/config"
	"hermes/internal/hermesapi"
	handlers "hermes/internal/http/handler"
	"hermes/internal/http/server"
	"hermes/internal/logging"
	"hermes/internal/otel"
	"hermes/internal/people"
	"hermes/internal/recentlyviewed"
	"hermes/internal/service"
	"hermes/internal/session"
)

// @title Hermes Dashboard API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	shutdownTracing, err := otel.Init(ctx, "hermes-dashboard", log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	peopleMetrics, err := people.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register people metrics: %w", err)
	}
	rvMetrics, err := recentlyviewed.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register recently viewed metrics: %w", err)
	}

	client, err := hermesapi.New(cfg.Backend)
	if err != nil {
		return fmt.Errorf("create hermes client: %w", err)
	}
	sessions := session.NewManager(client, session.Config{
		People:    cfg.People,
		Dashboard: cfg.Dashboard,
		DocsIndex: cfg.Backend.DocsIndex,
	}, session.Metrics{People: peopleMetrics, RecentlyViewed: rvMetrics}, log)

	app, err := server.New(log, reg, reg)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	handlers.RegisterRoutes(app, client.Ping, service.NewDashboardService(sessions))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("dashboard_starting",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("auth_provider", cfg.Backend.AuthProvider),
		zap.Duration("bulk_timeout", cfg.Dashboard.BulkTimeout),
		zap.Duration("lookup_timeout", cfg.People.LookupTimeout),
	)
	return server.Serve(ctx, app, ln, log)
}
