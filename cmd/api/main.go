// Command api is the entry point for the todo-system HTTP server.
//
// Startup order: logger, configuration, MongoDB, Redis, index/seed
// bootstrap, audit pipeline, explicit constructor wiring, HTTP server with
// graceful shutdown. No business logic lives here.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskforge/todo-system/internal/api"
	"github.com/taskforge/todo-system/internal/api/handler"
	"github.com/taskforge/todo-system/internal/core/service"
	"github.com/taskforge/todo-system/internal/core/token"
	"github.com/taskforge/todo-system/internal/infrastructure/config"
	mongodb "github.com/taskforge/todo-system/internal/infrastructure/db/mongo"
	redisdb "github.com/taskforge/todo-system/internal/infrastructure/db/redis"
	"github.com/taskforge/todo-system/internal/infrastructure/queue"
	"github.com/taskforge/todo-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootLog := logger.Init(logger.Options{Level: "info"})

	cfg, err := config.Load(ctx)
	if err != nil {
		// A missing JWT_SECRET lands here: fatal at startup, never a
		// per-request condition.
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Reset()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting todo-system")

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(startupCtx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	// --- Redis ---
	rdb, err := redisdb.Connect(startupCtx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories + store bootstrap ---
	userRepo := mongodb.NewUserRepository(db)
	todoRepo := mongodb.NewTodoRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	if err := userRepo.EnsureIndexes(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := userRepo.SeedRoles(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed roles")
	}
	if err := auditRepo.EnsureIndexes(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to create audit indexes")
	}

	// --- Audit pipeline ---
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	// --- Core wiring ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTTTL, log)
	revocations := redisdb.NewRevocationStore(rdb)
	authService := service.NewAuthService(userRepo, codec, revocations, dispatcher, log)
	todoService := service.NewTodoService(todoRepo, log)

	e := api.NewRouter(api.RouterConfig{
		AuthHandler:  handler.NewAuthHandler(authService),
		TodoHandler:  handler.NewTodoHandler(todoService),
		AuditHandler: handler.NewAuditHandler(auditService),
		Readiness:    handler.NewReadinessHandler(db, rdb),
		Codec:        codec,
		Roles:        userRepo,
		Revocations:  revocations,
		Audit:        dispatcher,
		Logger:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
