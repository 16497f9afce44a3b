// Command api serves the taskdesk HTTP API.
//
// @title                       taskdesk API
// @version                     1.0
// @description                 Task, assignment and peer request management with role-gated sessions.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskdesk/taskdesk/internal/api"
	"github.com/taskdesk/taskdesk/internal/core/ports"
	"github.com/taskdesk/taskdesk/internal/core/service"
	"github.com/taskdesk/taskdesk/internal/infrastructure/config"
	mongodb "github.com/taskdesk/taskdesk/internal/infrastructure/db/mongo"
	redisdb "github.com/taskdesk/taskdesk/internal/infrastructure/db/redis"
	"github.com/taskdesk/taskdesk/internal/infrastructure/http/handlers"
	"github.com/taskdesk/taskdesk/internal/infrastructure/notify"
	"github.com/taskdesk/taskdesk/internal/infrastructure/queue"
	"github.com/taskdesk/taskdesk/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "taskdesk-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	users := mongodb.NewUserRepository(db)
	tasks := mongodb.NewTaskRepository(db)
	assignments := mongodb.NewAssignmentRepository(db)
	projects := mongodb.NewProjectRepository(db)
	clients := mongodb.NewClientRepository(db)
	requests := mongodb.NewRequestRepository(db)

	if err := mongodb.EnsureIndexes(ctx, users, tasks, assignments, projects, clients, requests); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	sessions := redisdb.NewSessionStore(rdb)

	var notifier ports.Notifier = notify.Noop{}
	if cfg.Notify.Endpoint != "" {
		notifier = notify.NewExpoNotifier(cfg.Notify.Endpoint, cfg.Notify.AccessToken, cfg.Notify.Timeout)
	} else {
		log.Warn().Msg("PUSH_ENDPOINT is empty, push notifications disabled")
	}

	// Workers outlive the signal context so requests still draining during
	// shutdown can enqueue; they are stopped once the server has closed.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, notifier, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	router := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(users, sessions, cfg.JWTSecret, cfg.SessionTTL, logger.Component("auth")),
		Users:       service.NewUserService(users, sessions, logger.Component("users")),
		Tasks:       service.NewTaskService(tasks, logger.Component("tasks")),
		Assignments: service.NewAssignmentService(assignments, tasks, users, notifier, logger.Component("assignments")),
		Catalog:     service.NewCatalogService(projects, clients, users, logger.Component("catalog")),
		Requests:    service.NewRequestService(requests, users, dispatcher, logger.Component("requests")),
		Dashboard:   service.NewDashboardService(projects, clients, tasks, users, assignments, requests),
		Checks: map[string]handlers.Check{
			"mongo": handlers.MongoCheck(db),
			"redis": handlers.RedisCheck(rdb),
		},
		LoginRate:  cfg.LoginRateLimit,
		LoginBurst: cfg.LoginBurst,
		Log:        logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting http server")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	stopWorkers()
	dispatcher.Wait()
}
