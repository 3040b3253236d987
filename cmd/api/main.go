package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumosedu/lumos-api/internal/config"
	"github.com/lumosedu/lumos-api/internal/database"
	"github.com/lumosedu/lumos-api/internal/handler"
	"github.com/lumosedu/lumos-api/internal/middleware"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/repository"
	"github.com/lumosedu/lumos-api/internal/router"
	"github.com/lumosedu/lumos-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Course{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Report{},
		&models.ReportAction{},
		&models.MetadataItem{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewProfileRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	metadataRepo := repository.NewMetadataRepository(db)

	courseService := service.NewCourseService(courseRepo, redisClient, cfg.CatalogCacheTTL, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, enrollmentRepo, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, validate, logger)
	reportService := service.NewReportService(reportRepo, courseRepo, assignmentRepo, submissionRepo, profileRepo, validate, natsConn, cfg.NATSSubject, logger)
	metadataService := service.NewMetadataService(metadataRepo, courseRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		HealthHandler:     handler.NewHealthHandler(cfg.AppName, cfg.AppEnv),
		CourseHandler:     handler.NewCourseHandler(courseService),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, submissionService, gradingService),
		ReportHandler:     handler.NewReportHandler(reportService),
		MetadataHandler:   handler.NewMetadataHandler(metadataService),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		ReportRateLimit:   middleware.RateLimit("report-create", cfg.ReportRateMax, cfg.ReportRateWin),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
