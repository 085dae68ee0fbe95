package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/coder/quartz"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"

	config "github.com/maheshrc27/writer-dashboard/configs"
	"github.com/maheshrc27/writer-dashboard/internal/api/handlers"
	"github.com/maheshrc27/writer-dashboard/internal/api/middleware"
	"github.com/maheshrc27/writer-dashboard/internal/cache"
	job "github.com/maheshrc27/writer-dashboard/internal/jobs"
	"github.com/maheshrc27/writer-dashboard/internal/queue"
	"github.com/maheshrc27/writer-dashboard/internal/repository"
	"github.com/maheshrc27/writer-dashboard/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load environment variables", "error", err)
	}

	cfg := config.LoadConfig()

	loc, err := time.LoadLocation(cfg.Reset.TimeZone)
	if err != nil {
		fatal("invalid reset time zone", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		fatal("failed to connect to database", err)
	}

	if err := db.Ping(); err != nil {
		closeDB(db)
		fatal("database is unreachable", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURI,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI, Password: cfg.RedisPassword}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Sprintf("%d", time.Now().UnixNano())
			}
			return id
		},
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	responseCache := cache.NewRedisCache(rdb, "writer-dashboard:")

	transactor := repository.NewTransactor(db)
	postingAccountRepo := repository.NewPostingAccountRepository(db)
	auditRepo := repository.NewPostingAccountAuditRepository(db)
	appSettingsRepo := repository.NewAppSettingsRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	resetService := service.NewCounterResetService(transactor, postingAccountRepo, appSettingsRepo, quartz.NewReal(), loc)
	credentialsService := service.NewCredentialsService(settingsRepo, responseCache, cfg.CacheTTL)
	trelloService := service.NewTrelloService(service.NewTrelloClient(cfg.Trello.APIURL, cfg.Trello.Timeout))
	notifier := service.NewPostingAccountNotifier(trelloService, credentialsService, responseCache, cfg.CacheTTL)
	enqueuer := queue.NewEnqueuer(client, cfg.NotifyMaxRetry)
	postingAccountService := service.NewPostingAccountService(
		postingAccountRepo, auditRepo, resetService, credentialsService, notifier, enqueuer)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api := app.Group("/api")

	health := handlers.NewHealthHandler()
	api.Get("/health", health.Health)

	postingAccount := handlers.NewPostingAccountHandler(postingAccountService, resetService)
	api.Post("/getPostingAccount", postingAccount.GetPostingAccount)

	admin := api.Group("/admin")
	admin.Use(authMiddleware.AuthMiddleware())
	admin.Get("/postingAccounts", postingAccount.ListPostingAccounts)
	admin.Get("/postingAccounts/:id/audit", postingAccount.ListAudit)
	admin.Post("/setPostingAccount", postingAccount.SetPostingAccount)
	admin.Post("/resetCounters", postingAccount.ResetCounters)

	// cron jobs
	counterResetJob := job.NewCounterResetJob(resetService)

	c := cron.New()
	if err := c.AddFunc(cfg.Reset.Schedule, counterResetJob.ResetCounters); err != nil {
		closeDB(db)
		fatal("invalid reset schedule", err)
	}
	c.Start()

	// queue
	queueW := queue.NewQueue(notifier)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypeNotifyPostingAccount, queueW.HandleNotifyPostingAccountTask)

	slog.Info("starting the asynq server")
	if err := server.Start(mux); err != nil {
		closeDB(db)
		fatal("could not start asynq server", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			fatal("failed to start server", err)
		}
	}()
	slog.Info("server is running", "port", cfg.Port)

	gracefulShutdown(app, db, c, server)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, c *cron.Cron, server *asynq.Server) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	slog.Info("shutting down server")

	c.Stop()
	server.Shutdown()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}

	closeDB(db)
	slog.Info("server shutdown complete")
}
