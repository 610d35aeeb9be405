package main

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/orquestadev/orquesta/internal/config"
	"github.com/orquestadev/orquesta/internal/domain/fiber/handler"
	"github.com/orquestadev/orquesta/internal/logger"
	"github.com/orquestadev/orquesta/internal/middleware"
	"github.com/orquestadev/orquesta/internal/model"
	"github.com/orquestadev/orquesta/internal/repository"
	"github.com/orquestadev/orquesta/internal/rotation"
	"github.com/orquestadev/orquesta/internal/scoring"
	"github.com/orquestadev/orquesta/internal/service"
	"github.com/orquestadev/orquesta/internal/usecase"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	zlog, err := logger.New(appConfig.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB(zlog)

	assignerConfig := config.LoadAssignerConfig()
	authConfig := config.LoadAuthConfig()

	memory := rotation.Open(assignerConfig.MemoryFile, zlog)
	models, err := scoring.NewModelStore(assignerConfig.ModelFile)
	if err != nil {
		zlog.Warn("model file unusable, scoring falls back to heuristic", "error", err)
	}

	// The remote predictor takes over scoring when configured; the local
	// model store stays the retrain target either way.
	var predictor scoring.Predictor = models
	if assignerConfig.PredictorURL != "" {
		predictor = service.NewPredictorService(assignerConfig.PredictorURL)
		zlog.Info("using remote predictor", "url", assignerConfig.PredictorURL)
	}

	personRepo := repository.NewPersonRepository(db)
	weightsRepo := repository.NewWeightsRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)
	tokenRequestRepo := repository.NewTokenRequestRepository(db)

	assignUC := usecase.NewAssignUsecase(personRepo, weightsRepo, predictor, zlog)
	meetingUC := usecase.NewMeetingUsecase(memory, usecase.MeetingConfig{}, zlog)
	feedbackUC := usecase.NewFeedbackUsecase(weightsRepo, historyRepo, models, zlog)
	tokenUC := usecase.NewTokenUsecase(tokenRequestRepo, apiKeyRepo, authConfig.DefaultTokenExpiryDays)

	auth := middleware.TokenAuth(apiKeyRepo, zlog)
	admin := middleware.AdminAuth(authConfig.AdminToken)

	handler.NewAssignHandler(assignUC, meetingUC, feedbackUC, memory, models).RegisterRoutes(app, auth)
	handler.NewTokenHandler(tokenUC).RegisterRoutes(app, admin)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			zlog.Debug("active goroutines", "count", runtime.NumGoroutine())
		}
	}()

	zlog.Info("server running", "port", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", "error", err)
	}
}

func ConnectDB(zlog *logger.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zlog.Fatal("could not connect to database", "error", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		zlog.Fatal("could not get database instance", "error", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.Person{},
		&model.AssignmentHistory{},
		&model.ModelWeights{},
		&model.ApiKey{},
		&model.TokenRequest{},
	)
	if err != nil {
		zlog.Fatal("migration failed", "error", err)
	}
	return db
}
