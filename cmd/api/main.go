package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/jobfit-analyzer/internal/config"
	"alfredoptarigan/jobfit-analyzer/internal/handlers"
	"alfredoptarigan/jobfit-analyzer/internal/repositories"
	"alfredoptarigan/jobfit-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	setupLogger(cfg)
	log.Info().Msg("✅ Config loaded successfully")

	// Session storage
	repo, err := newSessionRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize session storage")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("✅ Session repository initialized")

	// Initialize services
	pdfParser := services.NewPDFParserService()
	prompts := services.NewPromptCatalog()
	modelCatalog := services.NewModelCatalog(cfg.Gemini.Models)

	detector, err := services.NewSensitiveDataDetector(cfg.Session.SensitivePatterns)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid sensitive data patterns")
	}

	exporter, err := services.NewExporter()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize exporter")
	}
	log.Info().Msg("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Temperature, cfg.Gemini.MaxOutputTokens)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}
	log.Info().Str("default_model", modelCatalog.Default()).Msg("✅ Gemini AI initialized successfully")

	analyzer := services.NewAnalyzerService(
		pdfParser,
		prompts,
		modelCatalog,
		detector,
		geminiService,
		services.AnalyzerPolicy{
			Timeout:        cfg.Session.Timeout,
			MaxAPICalls:    cfg.Session.MaxAPICalls,
			RequireConsent: cfg.Session.RequireConsent,
		},
		time.Now,
	)
	sessionService := services.NewSessionService(repo, analyzer, prompts, exporter, time.Now)
	log.Info().Msg("✅ Session service initialized")

	// Start sweeper
	sweeper := services.NewSweeper(
		repo,
		cfg.Session.Retention,
		cfg.Session.SweepInterval,
		time.Now,
		sessionService.Forget,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	// Initialize Handlers
	sessionHandler := handlers.NewSessionHandler(sessionService, cfg.Session.Timeout, cfg.Session.MaxAPICalls)
	analyzeHandler := handlers.NewAnalyzeHandler(sessionService, cfg.Storage.MaxFileSize)
	catalogHandler := handlers.NewCatalogHandler(prompts, modelCatalog)
	log.Info().Msg("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "JobFit Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")
	handlers.RegisterRoutes(api, sessionHandler, analyzeHandler, catalogHandler)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "JobFit Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/models",
				"GET /api/v1/intents",
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/consent",
				"POST /api/v1/sessions/:id/analyze",
				"GET /api/v1/sessions/:id/history",
				"GET /api/v1/sessions/:id/history/latest?label=",
				"DELETE /api/v1/sessions/:id/history",
				"GET /api/v1/sessions/:id/export?format=docx|md",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		sweeper.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Msgf("🚀 Server starting on %s", addr)
	log.Info().Msgf("📖 API Documentation: http://localhost%s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}

func newSessionRepository(cfg *config.Config) (repositories.SessionRepository, error) {
	switch cfg.Database.Driver {
	case config.StoreMemory:
		return repositories.NewMemorySessionRepository(), nil
	case config.StorePostgres:
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewGormSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Database.Driver)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":  err.Error(),
		"reason": "http_error",
		"code":   code,
	})
}
