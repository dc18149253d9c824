package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"pdfvault/internal/backend"
	"pdfvault/internal/config"
	handlers "pdfvault/internal/http/handler"
	"pdfvault/internal/http/middleware"
	"pdfvault/internal/logging"
	"pdfvault/internal/otel"
	"pdfvault/internal/repository"
	"pdfvault/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	// multipart framing on top of the file itself
	bodyOverhead = 1 << 20
)

// @title PDF Vault API
// @version 1.0
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithField("error", err).Warn("Tracing shutdown failed")
		}
	}()

	repo, closeRepo, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.WithField("error", err).Warn("Closing document store failed")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	storeMetrics, err := service.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register store metrics: %w", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	docSvc := service.NewDocumentService(repo,
		service.WithMaxUploadBytes(cfg.Upload.MaxBytes),
		service.WithUsageWarnBytes(cfg.Upload.UsageWarnBytes),
		service.WithMetrics(storeMetrics),
		service.WithLogger(log),
	)
	if _, err := docSvc.Usage(ctx); err != nil {
		log.WithField("error", err).Warn("Initial usage computation failed")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(cfg.Upload.MaxBytes) + bodyOverhead,
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log.WithField("component", "http")))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	pinger, _ := repo.(repository.Pinger)
	handlers.RegisterRoutes(app, pinger, docSvc)

	app.Get("/swagger/*", handlers.Swagger(cfg.AppHost))

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "backend": cfg.Backend}).Info("Server listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.WithField("error", err).Warn("Server shutdown failed")
		}
	}
	return nil
}
