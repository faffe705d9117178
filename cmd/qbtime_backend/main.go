package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vespo92/QBMCPServer/internal/adapters/qbtime"
	"github.com/vespo92/QBMCPServer/internal/core/services"
	"github.com/vespo92/QBMCPServer/internal/dto"
	"github.com/vespo92/QBMCPServer/internal/handlers"
	"github.com/vespo92/QBMCPServer/internal/middleware"
	"github.com/vespo92/QBMCPServer/internal/platform/config"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Upstream QuickBooks Time client: bearer auth, token-bucket rate
	// limiting and retry/backoff live inside.
	client := qbtime.NewClient(context.Background(), qbtime.Options{
		BaseURL:           cfg.QBTimeBaseURL,
		AccessToken:       cfg.QBTimeAccessToken,
		RequestsPerSecond: cfg.RequestsPerSecond,
		RequestsPerMinute: cfg.RequestsPerMinute,
		MaxRetries:        cfg.MaxRetries,
		RetryBaseDelay:    cfg.RetryBaseDelay,
		RetryMaxDelay:     cfg.RetryMaxDelay,
		Logger:            logger,
	})

	container := services.NewServiceContainer(cfg, client, logger)

	dto.RegisterCustomValidators()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, client, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
