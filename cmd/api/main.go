package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-dashboard/internal/api/http"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/backend"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
	"github.com/spec-kit/ticket-dashboard/internal/theme"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var themes theme.Store = theme.NewMemoryStore()
	if redis != nil {
		themes = theme.NewRedisStore(redis.Client)
		logger.Info("theme preferences stored in redis", zap.String("addr", redis.Addr()))
	}

	metrics := observability.NewMetrics()
	client := backend.NewClient(cfg.Backend, nil).WithLogger(logger)
	loader := dashboard.NewLoader(client, logger)
	subscribe := dashboard.NewStreamFactory(cfg.Backend.BaseURL+cfg.Backend.StreamPath, logger, stream.Options{Metrics: metrics})
	hub := dashboard.NewHub(loader, subscribe, logger, cfg.Session.IdleTTL())
	defer hub.Close()

	reaperDone := worker.StartSessionReaper(ctx, hub, cfg.Session.ReapInterval(), logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, hub.Len).WithMetrics(metrics),
		Dashboard:  handlers.NewDashboardHandler(hub, cfg.Backend.FilesBaseURL),
		Stream:     handlers.NewStreamHandler(hub, cfg.Backend.FilesBaseURL, logger, 0),
		Theme:      handlers.NewThemeHandler(themes, logger),
		Credential: auth.NewCredentialMiddleware(cfg.Auth.CookieName),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	<-reaperDone
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
