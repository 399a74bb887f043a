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

	"github.com/mci-lab/avatarforge/internal/api"
	"github.com/mci-lab/avatarforge/internal/api/middleware"
	"github.com/mci-lab/avatarforge/internal/config"
	"github.com/mci-lab/avatarforge/internal/logger"
	"github.com/mci-lab/avatarforge/internal/repository"
	"github.com/mci-lab/avatarforge/internal/service"
	"github.com/mci-lab/avatarforge/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "avatarforge",
	})
	logger.SetDefaultLogger(appLogger)

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	configRepo := repository.NewConfigRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	objectStorage, err := storage.NewStorage(&storage.S3Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	ctx := context.Background()
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	generator := service.NewOpenAIClient(&service.OpenAIConfig{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		EditModel:  cfg.OpenAI.EditModel,
		ImageModel: cfg.OpenAI.ImageModel,
		Timeout:    time.Duration(cfg.OpenAI.TimeoutSec) * time.Second,
	})

	submissionCfg := &service.SubmissionConfig{ImageSize: cfg.OpenAI.ImageSize}

	yearbookMode := service.GenerationMode(cfg.OpenAI.YearbookMode)
	yearbook := service.NewSubmissionService(
		service.YearbookVariant(yearbookMode),
		configRepo, responseRepo, objectStorage, generator, appLogger, submissionCfg,
	)
	adventurer := service.NewSubmissionService(
		service.AdventurerVariant(),
		configRepo, responseRepo, objectStorage, generator, appLogger, submissionCfg,
	)

	router := api.SetupRouter(yearbook, adventurer, middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}, cfg.Server.Mode, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
