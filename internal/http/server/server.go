// Package server assembles the fiber app shared by the dashboard and the
// mock backend: error handling, request IDs, tracing, request logs and
// Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hermes/internal/http/handler"
	"hermes/internal/http/middleware"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// New builds an app with the common middleware chain and a /metrics route
// served from gatherer.
func New(log *zap.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*fiber.App, error) {
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler(),
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return app, nil
}

// Serve runs app on ln until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, app *fiber.App, ln net.Listener, log *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		log.Info("server_listening", zap.String("addr", ln.Addr().String()))
		errc <- app.Listener(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("server_shutting_down")
	if err := app.ShutdownWithTimeout(ShutdownTimeout); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
