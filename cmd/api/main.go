package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"stagelink/api/internal/audit"
	"stagelink/api/internal/cache"
	"stagelink/api/internal/config"
	"stagelink/api/internal/database"
	"stagelink/api/internal/handlers"
	"stagelink/api/internal/jobs"
	"stagelink/api/internal/log"
	"stagelink/api/internal/notify"
	"stagelink/api/internal/rbac"
	"stagelink/api/internal/server"
	"stagelink/api/internal/service"
	"stagelink/api/internal/session"
	"stagelink/api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	if cfg.Session.RequireSigned && cfg.Session.Secret == "" {
		logger.Fatal().Msg("session.requiresigned needs session.secret")
	}

	ctx := context.Background()

	objects, err := store.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	// The notification side-channel and the audit database are optional;
	// the service runs degraded without either.
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, notifications disabled")
		redisClient = nil
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Warn().Err(err).Msg("postgres unavailable, audit persistence disabled")
		dbPool = nil
	}

	sessions := session.NewManager(cfg.Session, cfg.Environment, logger)
	engine := rbac.NewEngine(logger)

	users := store.NewUserStore(objects)
	events := store.NewEventStore(objects)
	notifier := notify.NewNotifier(redisClient, logger)
	recorder := audit.New(logger, dbPool)
	authService := service.NewAuthService(users, notifier, recorder, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, sessions, engine, authService, events, redisClient, dbPool)
	httpServer := server.NewHTTPServer(cfg, logger, sessions, handlerSet)

	hub := notify.NewHub()
	scheduler := jobs.NewScheduler(authService, notifier, hub, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
