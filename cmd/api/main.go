package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bookly-service/internal/api/http"
	"github.com/spec-kit/bookly-service/internal/api/http/handlers"
	"github.com/spec-kit/bookly-service/internal/auth"
	"github.com/spec-kit/bookly-service/internal/config"
	"github.com/spec-kit/bookly-service/internal/events"
	"github.com/spec-kit/bookly-service/internal/observability"
	"github.com/spec-kit/bookly-service/internal/persistence"
	"github.com/spec-kit/bookly-service/internal/repository"
	"github.com/spec-kit/bookly-service/internal/service"
	"github.com/spec-kit/bookly-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	users := repository.NewUserDirectory(pg.PoolHandle())
	revocations := repository.NewRevocationStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	mailService := service.NewMailService(dispatcher, logger, cfg.Mail)
	worker.StartMailerWorker(mailService)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Users:       users,
		Revocations: revocations,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	storeTimeout := cfg.Auth.RevocationTimeout()
	accessAuth := auth.NewMiddleware(auth.NewAccessAuthenticator(authService.Codec(), revocations, storeTimeout), users)
	refreshAuth := auth.NewMiddleware(auth.NewRefreshAuthenticator(authService.Codec(), revocations, storeTimeout), users)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:        handlers.NewAuthHandler(authService),
		AccessAuth:  accessAuth,
		RefreshAuth: refreshAuth,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
