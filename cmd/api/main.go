package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/mom-generator/docs"
	pkgvalidator "github.com/johnquangdev/mom-generator/pkg/validator"

	"github.com/johnquangdev/mom-generator/internal/adapter/handler"
	"github.com/johnquangdev/mom-generator/internal/adapter/repository"
	"github.com/johnquangdev/mom-generator/internal/domain/repositories"
	"github.com/johnquangdev/mom-generator/internal/infrastructure/cache"
	"github.com/johnquangdev/mom-generator/internal/infrastructure/database"
	"github.com/johnquangdev/mom-generator/internal/infrastructure/export"
	httpmw "github.com/johnquangdev/mom-generator/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/mom-generator/internal/infrastructure/storage"
	"github.com/johnquangdev/mom-generator/internal/usecase/minutes"
	"github.com/johnquangdev/mom-generator/internal/usecase/numbering"
	"github.com/johnquangdev/mom-generator/internal/usecase/structuring"
	pkgai "github.com/johnquangdev/mom-generator/pkg/ai"
	"github.com/johnquangdev/mom-generator/pkg/config"
	"github.com/johnquangdev/mom-generator/pkg/jwt"
)

// @title           MoM Generator API
// @version         1.0
// @description     Meeting minutes drafting, numbering, export and task conversion

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Voice notes are the largest uploads
	e.Use(middleware.BodyLimit("25M"))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))

	logger.Info("🔧 Initializing dependencies...")
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	// Initialize Database
	logger.Info("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db, cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Rate limiter: Redis when configured, in-memory otherwise
	var limiter repositories.RateLimiter
	if cfg.RedisEnabled() {
		logger.Info("📦 Connecting to Redis...", zap.String("addr", cfg.GetRedisAddr()))
		redisClient, err := cache.NewRedisClient(startCtx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		limiter = cache.NewRedisLimiter(redisClient)
	} else {
		logger.Warn("⚠️  Redis not configured, using in-memory rate limiter")
		store := cache.NewMemoryStore()
		defer store.Close()
		limiter = cache.NewMemoryLimiter(store)
	}

	// Initialize object storage
	logger.Info("🗄️  Connecting to object storage...", zap.String("endpoint", cfg.Storage.Endpoint))
	blobs, err := storage.NewMinIOClient(startCtx, &cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Initialize repositories
	logger.Info("⚙️  Initializing repositories...")
	documentRepo := repository.NewDocumentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)

	// Initialize AI components
	logger.Info("🤖 Initializing AI components...")
	var backend repositories.GenerationBackend
	if groqClient := pkgai.NewGroqClient(&cfg.Groq); groqClient.Enabled() {
		backend = groqClient
	} else {
		logger.Warn("⚠️  GROQ_API_KEY not set, minutes are generated offline")
	}
	generator := structuring.NewGenerator(backend, cfg.Groq.Timeout, logger)

	var transcriber repositories.Transcriber
	if asmClient := pkgai.NewAssemblyAIClient(&cfg.Assembly); asmClient.Enabled() {
		transcriber = asmClient
	} else {
		logger.Warn("⚠️  ASSEMBLYAI_API_KEY not set, voice notes are disabled")
	}

	allocator := numbering.NewAllocator(documentRepo, cfg.Minutes.IdentifierPrefix, cfg.Minutes.ScanLimit, logger)

	// Initialize minutes service
	logger.Info("📝 Initializing minutes service...")
	minutesService := minutes.NewService(minutes.Dependencies{
		Store:       documentRepo,
		Audit:       auditRepo,
		Tasks:       taskRepo,
		Directory:   directoryRepo,
		Blobs:       blobs,
		Limiter:     limiter,
		Transcriber: transcriber,
		Generator:   generator,
		Allocator:   allocator,
		Exporter:    export.NewPDFWriter("MoM Generator"),
	}, minutes.Options{
		GenerateCooldown: cfg.Minutes.GenerateCooldown,
		SaveAttempts:     cfg.Minutes.SaveAttempts,
		SessionTTL:       cfg.Minutes.SessionTTL,
	}, logger)

	minutesHandler := handler.NewMinutesHandler(minutesService, export.NewPrintWriter(false), handler.MinutesConfig{
		GenerateCooldown: cfg.Minutes.GenerateCooldown,
		GenerateTimeout:  cfg.Groq.Timeout + 5*time.Second,
	}, logger)

	// Initialize JWT manager
	logger.Info("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	authEchoMW := httpmw.EchoAuth(jwtManager, logger)

	// Setup router with handlers
	logger.Info("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, minutesHandler, authEchoMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
