package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/contentforge/backend/configs"
	"github.com/contentforge/backend/internal/api/handlers"
	"github.com/contentforge/backend/internal/api/middleware"
	job "github.com/contentforge/backend/internal/jobs"
	"github.com/contentforge/backend/internal/platforms"
	"github.com/contentforge/backend/internal/provider"
	"github.com/contentforge/backend/internal/queue"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	pipelineRepo := repository.NewPipelineRepository(db)
	pipelineHistoryRepo := repository.NewPipelineHistoryRepository(db)
	scheduledJobRepo := repository.NewScheduledJobRepository(db)
	postingQueueRepo := repository.NewPostingQueueRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)
	paymentEventRepo := repository.NewPaymentEventRepository(db)

	providerRegistry, err := provider.NewRegistry(
		provider.NewOpenAIClient(cfg.Providers.OpenAIKey),
		provider.NewElevenLabsClient(cfg.Providers.ElevenLabsKey),
		provider.NewReplicateClient(cfg.Providers.ReplicateKey, provider.RetryPolicy{MaxAttempts: 60, Interval: 5 * time.Second}),
	)
	if err != nil {
		log.Fatalf("Failed to build provider registry: %v", err)
	}

	posterRegistry, err := platforms.NewRegistry(
		platforms.NewFacebookPoster(),
		platforms.NewInstagramPoster(),
		platforms.NewTwitterPoster(),
		platforms.NewLinkedinPoster(),
		platforms.NewTiktokPoster(),
		platforms.NewYoutubePoster(),
	)
	if err != nil {
		log.Fatalf("Failed to build poster registry: %v", err)
	}

	authService := service.NewAuthService(*cfg, userRepo, creditRepo)
	userService := service.NewUserService(userRepo, socialAccountRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	storageService := service.NewStorageService(*cfg)
	creditService := service.NewCreditService(creditRepo)
	generationService := service.NewGenerationService(*cfg, providerRegistry, providerRepo, creditService, settingsService, storageService)
	connectService := service.NewConnectService(*cfg, socialAccountRepo)
	postingService := service.NewPostingService(*cfg, posterRegistry, postingQueueRepo, socialAccountRepo, notificationRepo)
	pipelineService := service.NewPipelineService(pipelineRepo, pipelineHistoryRepo, generationService, postingService, settingsService)
	paymentService := service.NewPaymentService(*cfg, paymentEventRepo, creditService)
	notificationService := service.NewNotificationService(notificationRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rdb, cfg.RateLimitPerMinute)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Get("/logout", auth.Logout)

	payment := handlers.NewPaymentHandler(paymentService)
	app.Post("/webhooks/stripe", payment.StripeWebhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())
	api.Use(rateLimitMiddleware.RateLimit())

	connect := handlers.NewConnectHandler(connectService)
	api.Get("/auth/:platform", connect.AddSocialAccount)
	api.Get("/auth/:platform/callback", connect.CallbackHandler)
	api.Get("/accounts", connect.ListSocialAccounts)
	api.Post("/accounts/disconnect", connect.DisconnectSocialAccount)

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	credits := handlers.NewCreditsHandler(creditService)
	api.Get("/credits", credits.GetOverview)
	api.Post("/credits/action", credits.ApplyAction)

	generate := handlers.NewGenerateHandler(generationService)
	api.Post("/generate", generate.Generate)
	api.Get("/providers", generate.ListProviders)

	pipeline := handlers.NewPipelineHandler(pipelineService, client)
	api.Post("/pipelines/create", pipeline.CreatePipeline)
	api.Get("/pipelines", pipeline.ListPipelines)
	api.Get("/pipelines/info", pipeline.PipelineInfo)
	api.Get("/pipelines/history", pipeline.PipelineHistory)
	api.Post("/pipelines/status", pipeline.SetStatus)
	api.Post("/pipelines/schedule", pipeline.UpdateSchedule)
	api.Post("/pipelines/run", pipeline.RunPipeline)
	api.Post("/pipelines/remove", pipeline.RemovePipeline)

	queueH := handlers.NewQueueHandler(postingService, client)
	api.Post("/queue/create", queueH.CreateQueueItem)
	api.Get("/queue", queueH.ListQueue)
	api.Post("/queue/remove", queueH.RemoveQueueItem)
	api.Post("/queue/drain", queueH.DrainQueue)

	api.Post("/payments/razorpay/verify", payment.VerifyRazorpay)

	notifications := handlers.NewNotificationHandler(notificationService)
	api.Get("/notifications", notifications.ListNotifications)
	api.Post("/notifications/read", notifications.MarkRead)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, connectService)
	dueCheckJob := job.NewDueCheckJob(pipelineRepo, scheduledJobRepo, settingsService, client)

	//queue
	queueW := queue.NewQueue(postingService, pipelineService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", dueCheckJob.CheckDuePipelines)
	c.AddFunc("@every 00h01m00s", func() {
		if err := queue.EnqueueDrain(client, queue.DrainQueuePayload{}); err != nil {
			log.Printf("Error enqueueing queue drain: %v", err)
		}
	})
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeDrainQueue, queueW.HandleDrainQueueTask)
		mux.HandleFunc(queue.TaskTypeRunPipeline, queueW.HandleRunPipelineTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
