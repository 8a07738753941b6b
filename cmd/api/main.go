package main

import (
	"context"
	"log"
	"time"

	"legacybook/config"
	"legacybook/internal/handler"
	"legacybook/internal/redis"
	"legacybook/internal/repository"
	"legacybook/internal/server"
	"legacybook/internal/services"
	"legacybook/internal/storage"
	"legacybook/pkg/database"
	"legacybook/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	database.Connect(cfg)
	if err := database.Migrate("migrations"); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := storage.NewClient(ctx, storage.Config{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Buckets: storage.Buckets{
			Audio: cfg.AudioBucket,
			Video: cfg.VideoBucket,
			Image: cfg.ImageBucket,
		},
		Timeout: cfg.StorageTimeout,
		MinTTL:  time.Duration(cfg.SignedURLMinTTL) * time.Second,
		MaxTTL:  time.Duration(cfg.SignedURLMaxTTL) * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to set up object storage: %v", err)
	}

	// Submissions still flow without Redis, just unthrottled.
	var limiter *redis.RateLimiter
	redisClient, err := redis.NewClient(ctx, redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		l.Warnf("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		limiter = redis.NewRateLimiter(redisClient, redis.DefaultRateLimitConfig())
	}

	submissionRepo := repository.NewSubmissionRepository(database.DB)
	adminRepo := repository.NewAdminRepository(database.DB)

	intakeService := services.NewIntakeService(submissionRepo, store, nil, l, cfg.MaxAudioBytes, cfg.MaxVideoBytes)
	reviewService := services.NewReviewService(submissionRepo, store, l)
	exportService := services.NewExportService(submissionRepo, store, time.Hour, l)
	adminService := services.NewAdminService(adminRepo)

	handlers := &server.Handlers{
		Submission: handler.NewSubmissionHandler(intakeService),
		Admin:      handler.NewAdminHandler(reviewService, exportService, adminService),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, adminService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
