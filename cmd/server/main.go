package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/learning-service/internal/cache"
	"github.com/adaptlearn/learning-service/internal/config"
	"github.com/adaptlearn/learning-service/internal/examcoach"
	"github.com/adaptlearn/learning-service/internal/handlers"
	"github.com/adaptlearn/learning-service/internal/llm"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories/postgres"
	"github.com/adaptlearn/learning-service/internal/services"
	"github.com/adaptlearn/learning-service/internal/utils"
	"github.com/adaptlearn/learning-service/internal/validator"
	"github.com/adaptlearn/learning-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Environment, cfg.LogFile)
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Database initialization failed")
		os.Exit(1)
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.LogError(err, "Database migration failed")
		os.Exit(1)
	}

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", "error", err)
		cacheService = cache.NewMemoryCache()
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Event publisher initialization failed")
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	provider, err := llm.NewProvider(ctx, cfg.LLM, slogger)
	switch {
	case errors.Is(err, llm.ErrNoProvider):
		logger.Info("No language model configured, coach runs in static mode")
		provider = nil
	case err != nil:
		logger.Warn("Language model unavailable, coach runs in static mode", "provider", cfg.LLM.Provider, "error", err)
		provider = nil
	default:
		logger.Info("Coach language model ready", "provider", cfg.LLM.Provider, "model", provider.ModelID())
	}

	catalog := examcoach.DefaultCatalog()
	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      postgres.NewRepository(db),
		Catalog:   catalog,
		Publisher: publisher,
		Cache:     cacheService,
		Provider:  provider,
		LLM:       cfg.LLM,
		Validator: validator.New(catalog),
		Logger:    slogger,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(handlers.CORSMiddleware(cfg.CORSOrigins))
	router.Use(utils.ContextLogger(logger))

	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Learning service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Graceful shutdown failed")
	}
}
