package main

import (
	"context"
	"errors"
	"interview-api/internal/api"
	"interview-api/internal/api/handlers"
	"interview-api/internal/config"
	"interview-api/internal/database"
	"interview-api/internal/logger"
	"interview-api/internal/quota"
	"interview-api/internal/repository"
	"interview-api/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to load configuration")
	}

	logCloser := logger.Setup(cfg.Log)
	defer logCloser.Close()

	// Initialize database connection
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logger.Logger.WithError(err).Fatal("Failed to connect to database")
	}

	// The cache stays a nil interface when disabled so services skip it
	var cache services.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := services.NewRedisCacheService(cfg.Redis)
		if err != nil {
			logger.Logger.WithError(err).Fatal("Failed to connect to redis")
		}
		cache = redisCache
	}

	loc, err := cfg.Quota.Location()
	if err != nil {
		logger.Logger.WithError(err).Fatal("Invalid quota timezone")
	}
	policy := quota.NewResetPolicy(loc)
	gate := quota.NewGate(cfg.Quota.Ceilings(), cfg.Quota.PremiumBypass)

	// Initialize repositories
	usageRepo := repository.NewUsageRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	// Initialize services
	authService := services.NewAuthService(cfg.Auth)
	usageService := services.NewUsageService(usageRepo, policy, gate)
	accountService := services.NewAccountService(accountRepo, cache, cfg.Redis.DefaultTTL)
	questionService := services.NewQuestionService(questionRepo, cache, cfg.Redis.DefaultTTL)
	solutionService := services.NewSolutionService(cfg.Solutions.Dir)
	completionService := services.NewCompletionService(cfg.OpenAI, nil)
	increments := services.NewIncrementScheduler(usageService, cfg.Quota.IncrementTimeout)
	guard := services.NewQuotaGuard(accountService, usageService)
	aiService := services.NewAIService(guard, completionService, increments)
	interviewService := services.NewInterviewService(interviewRepo, questionService, solutionService, guard, increments)

	router := api.SetupRoutes(db, cache, authService, api.Handlers{
		Usage:     handlers.NewUsageHandler(usageService),
		Accounts:  handlers.NewAccountHandler(accountService),
		Questions: handlers.NewQuestionHandler(questionService),
		Solutions: handlers.NewSolutionHandler(solutionService),
		Interview: handlers.NewInterviewHandler(interviewService),
		AI:        handlers.NewAIHandler(aiService),
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-API-Key",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         cfg.Server.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.LogEvent(logrus.InfoLevel, "Server starting", logrus.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.LogEvent(logrus.InfoLevel, "Shutting down", logrus.Fields{"signal": sig.String()})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.WithError(err).Error("Server shutdown did not complete")
	}
	if err := increments.Drain(ctx); err != nil {
		logger.Logger.WithError(err).Error("Pending usage increments were abandoned")
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Logger.WithError(err).Warn("Failed to close redis")
		}
	}
	if err := database.Close(db); err != nil {
		logger.Logger.WithError(err).Warn("Failed to close database")
	}
	logger.LogEvent(logrus.InfoLevel, "Server stopped", nil)
}
