package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/adapters"
	"github.com/satriahrh/gemini-cloud-stt/adapters/llm"
	"github.com/satriahrh/gemini-cloud-stt/adapters/mongo"
	"github.com/satriahrh/gemini-cloud-stt/adapters/openai"
	"github.com/satriahrh/gemini-cloud-stt/adapters/stt"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
	"github.com/satriahrh/gemini-cloud-stt/internal/api"
	"github.com/satriahrh/gemini-cloud-stt/internal/auth"
	"github.com/satriahrh/gemini-cloud-stt/internal/config"
	"github.com/satriahrh/gemini-cloud-stt/internal/websocket"
	"github.com/satriahrh/gemini-cloud-stt/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config entry storage
	var entries repositories.ConfigEntryRepository
	if cfg.UseMongo() {
		mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoClient.Close(context.Background())

		repo := mongo.NewConfigEntryRepository(mongoClient.Database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Fatal("Failed to prepare config entry collection", zap.Error(err))
		}
		entries = repo
	} else {
		logger.Warn("MONGODB_URI not set, config entries are kept in memory")
		entries = adapters.NewMemoryConfigEntryRepository()
	}

	// Providers are created per entry; each one creates its Gemini client on first use.
	clientFactory := llm.NewGeminiClientFactory(logger)
	registry := usecase.NewProviderRegistry(entries, func(pc entities.ProviderConfig) (repositories.SpeechToText, error) {
		return stt.NewGeminiSpeechToText(pc, clientFactory, logger)
	}, logger)
	if err := registry.Setup(ctx); err != nil {
		logger.Fatal("Failed to set up providers", zap.Error(err))
	}

	// Initialize usecase services
	keyValidator := openai.NewKeyValidator(cfg.GeminiBaseURL, logger)
	configFlow := usecase.NewConfigFlow(entries, keyValidator, registry, logger)
	optionsFlow := usecase.NewOptionsFlow(entries, registry, logger)
	transcription := usecase.NewTranscriptionService(registry, logger)

	// Initialize WebSocket hub
	hub := websocket.NewHub(transcription, logger)
	go hub.Run(ctx)

	tokens, err := auth.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("Failed to create token manager", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, api.Dependencies{
		Entries:       entries,
		Registry:      registry,
		ConfigFlow:    configFlow,
		OptionsFlow:   optionsFlow,
		Transcription: transcription,
		Hub:           hub,
		Tokens:        tokens,
	}, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.Bool("mongo", cfg.UseMongo()),
		zap.Int("entries", len(registry.List())))

	<-ctx.Done()

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
