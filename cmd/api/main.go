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

	"github.com/jupiter-hub/jupiter-go-api/internal/config"
	"github.com/jupiter-hub/jupiter-go-api/internal/database"
	"github.com/jupiter-hub/jupiter-go-api/internal/handler"
	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/repository"
	"github.com/jupiter-hub/jupiter-go-api/internal/router"
	"github.com/jupiter-hub/jupiter-go-api/internal/service"
	cloud "github.com/jupiter-hub/jupiter-go-api/pkg/cloudinary"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
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

	if err := db.AutoMigrate(&models.User{}, &models.Student{}, &models.Skill{}, &models.Performance{}, &models.Document{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	tokens := token.NewService(token.Config{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessExpiry:  cfg.AccessTokenExpiry,
		RefreshExpiry: cfg.RefreshTokenExpiry,
		Issuer:        cfg.TokenIssuer,
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	authService := service.NewAuthService(userRepo, studentRepo, tokens, validate, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	skillService := service.NewSkillService(skillRepo, studentRepo, validate, logger)
	performanceService := service.NewPerformanceService(performanceRepo, studentRepo, validate, logger)
	documentService := service.NewDocumentService(documentRepo, studentRepo, uploader, cfg.MaxUploadBytes, validate, logger)
	dashboardService := service.NewDashboardService(studentService, skillService, performanceService, documentService, redisClient, cfg.DashboardCacheTTL, logger)
	seedService := service.NewSeedService(studentRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	authHandler := handler.NewAuthHandler(authService, cfg.AccessTokenExpiry, logger)
	studentHandler := handler.NewStudentHandler(studentService, skillService, performanceService, documentService, logger)
	skillHandler := handler.NewSkillHandler(skillService, logger)
	performanceHandler := handler.NewPerformanceHandler(performanceService, logger)
	documentHandler := handler.NewDocumentHandler(documentService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.MaxUploadBytes) + 1024*1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		Tokens:             tokens,
		AuthHandler:        authHandler,
		StudentHandler:     studentHandler,
		SkillHandler:       skillHandler,
		PerformanceHandler: performanceHandler,
		DocumentHandler:    documentHandler,
		DashboardHandler:   dashboardHandler,
		SeedHandler:        seedHandler,
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
