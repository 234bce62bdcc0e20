package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Kali2114/ZenithFlowAPI/internal/api"
	"github.com/Kali2114/ZenithFlowAPI/internal/events"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
	"github.com/Kali2114/ZenithFlowAPI/internal/s3"
	"github.com/Kali2114/ZenithFlowAPI/internal/scheduler"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
	"github.com/Kali2114/ZenithFlowAPI/internal/tracing"
	_ "github.com/Kali2114/ZenithFlowAPI/migrations"
)

const defaultSubscriptionCostCents = 12050

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("zenithflow")

	shutdownTracer, err := tracing.InitTracerProvider("zenithflow")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	eventPublisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	userRepo := repository.NewPostgresUserRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	sessionRepo := repository.NewPostgresSessionRepository(db)
	tokenRepo := repository.NewPostgresTokenRepository(db)
	enrollmentRepo := repository.NewPostgresEnrollmentRepository(db)
	subscriptionRepo := repository.NewPostgresSubscriptionRepository(db)
	ratingRepo := repository.NewPostgresRatingRepository(db)
	instructorRatingRepo := repository.NewPostgresInstructorRatingRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)
	techniqueRepo := repository.NewPostgresTechniqueRepository(db)
	statsRepo := repository.NewPostgresStatsRepository(db)

	authService := service.NewAuthService(userRepo, profileRepo, tokenRepo)
	userService := service.NewUserService(userRepo, profileRepo)
	sessionService := service.NewSessionService(sessionRepo, profileRepo, ratingRepo, eventPublisher)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, sessionRepo, subscriptionRepo, eventPublisher)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, subscriptionCostCents())
	ratingService := service.NewRatingService(ratingRepo, instructorRatingRepo, enrollmentRepo, sessionRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, userRepo)
	techniqueService := service.NewTechniqueService(techniqueRepo)
	adminService := service.NewAdminService(statsRepo, userRepo)

	presigner, err := s3.NewAvatarPresigner()
	if err != nil {
		log.Printf("WARNING: S3 presigner unavailable, avatar uploads disabled: %v", err)
		presigner = nil
	}

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService, presigner)
	sessionHandler := api.NewSessionHandler(sessionService)
	enrollmentHandler := api.NewEnrollmentHandler(enrollmentService)
	subscriptionHandler := api.NewSubscriptionHandler(subscriptionService)
	ratingHandler := api.NewRatingHandler(ratingService)
	messageHandler := api.NewMessageHandler(messageService)
	techniqueHandler := api.NewTechniqueHandler(techniqueService)
	adminHandler := api.NewAdminHandler(adminService)

	jobs := scheduler.New(sessionService, subscriptionService, authService)
	jobs.Start(context.Background())

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "zenithflow"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)

	userRoutes := v1.Group("/users")
	userRoutes.Use(api.AuthMiddleware())
	userRoutes.Get("/me", authHandler.Me)
	userRoutes.Get("/me/profile", userHandler.GetProfile)
	userRoutes.Patch("/me/profile", userHandler.UpdateProfile)
	userRoutes.Post("/me/funds", userHandler.AddFunds)
	userRoutes.Post("/me/avatar-upload", userHandler.PresignAvatarUpload)
	userRoutes.Post("/me/device-tokens", userHandler.RegisterDeviceToken)

	sessionRoutes := v1.Group("/sessions")
	sessionRoutes.Use(api.AuthMiddleware())
	sessionRoutes.Get("/", sessionHandler.ListSessions)
	sessionRoutes.Get("/calendar", sessionHandler.Calendar)
	sessionRoutes.Get("/:id", sessionHandler.GetSession)
	sessionRoutes.Get("/:id/ratings", sessionHandler.SessionRatings)
	sessionRoutes.Get("/:id/techniques", sessionHandler.SessionTechniques)
	sessionRoutes.Post("/", api.InstructorOnly(), sessionHandler.CreateSession)
	sessionRoutes.Patch("/:id", api.InstructorOnly(), sessionHandler.UpdateSession)
	sessionRoutes.Delete("/:id", api.InstructorOnly(), sessionHandler.DeleteSession)
	sessionRoutes.Post("/:id/complete", api.InstructorOnly(), sessionHandler.CompleteSession)
	sessionRoutes.Post("/:id/enroll", enrollmentHandler.Enroll)
	sessionRoutes.Post("/:id/rate", ratingHandler.RateSession)

	enrollmentRoutes := v1.Group("/enrollments")
	enrollmentRoutes.Use(api.AuthMiddleware())
	enrollmentRoutes.Get("/", enrollmentHandler.ListMyEnrollments)
	enrollmentRoutes.Get("/:id", enrollmentHandler.GetEnrollment)
	enrollmentRoutes.Delete("/:id", enrollmentHandler.CancelEnrollment)

	subscriptionRoutes := v1.Group("/subscriptions")
	subscriptionRoutes.Use(api.AuthMiddleware())
	subscriptionRoutes.Post("/", subscriptionHandler.Purchase)
	subscriptionRoutes.Get("/", subscriptionHandler.ListMySubscriptions)
	subscriptionRoutes.Get("/status", subscriptionHandler.Status)

	instructorRoutes := v1.Group("/instructors")
	instructorRoutes.Use(api.AuthMiddleware())
	instructorRoutes.Get("/:id/ratings", ratingHandler.ListInstructorRatings)
	instructorRoutes.Post("/:id/ratings", ratingHandler.RateInstructor)
	instructorRoutes.Put("/:id/ratings/:ratingId", ratingHandler.UpdateInstructorRating)
	instructorRoutes.Delete("/:id/ratings/:ratingId", ratingHandler.DeleteInstructorRating)

	v1.Get("/ratings/given", api.AuthMiddleware(), ratingHandler.ListMyInstructorRatings)

	messageRoutes := v1.Group("/messages")
	messageRoutes.Use(api.AuthMiddleware())
	messageRoutes.Post("/", messageHandler.SendMessage)
	messageRoutes.Get("/inbox", messageHandler.Inbox)
	messageRoutes.Get("/sent", messageHandler.Sent)
	messageRoutes.Post("/:id/read", messageHandler.MarkRead)

	techniqueRoutes := v1.Group("/techniques")
	techniqueRoutes.Use(api.AuthMiddleware())
	techniqueRoutes.Get("/", techniqueHandler.ListTechniques)
	techniqueRoutes.Get("/:id", techniqueHandler.GetTechnique)
	techniqueRoutes.Post("/", api.InstructorOnly(), techniqueHandler.CreateTechnique)
	techniqueRoutes.Put("/:id", api.InstructorOnly(), techniqueHandler.UpdateTechnique)
	techniqueRoutes.Delete("/:id", api.InstructorOnly(), techniqueHandler.DeleteTechnique)

	adminRoutes := v1.Group("/admin")
	adminRoutes.Use(api.AuthMiddleware(), api.InstructorOnly())
	adminRoutes.Get("/panel", adminHandler.Panel)
	adminRoutes.Get("/report", adminHandler.Report)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8001"
	}

	log.Printf("Listening zenithflow on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func subscriptionCostCents() int64 {
	raw := os.Getenv("SUBSCRIPTION_COST_CENTS")
	if raw == "" {
		return defaultSubscriptionCostCents
	}

	cost, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cost <= 0 {
		log.Fatalf("Invalid SUBSCRIPTION_COST_CENTS value: %q", raw)
	}

	return cost
}

func connectDB() *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
