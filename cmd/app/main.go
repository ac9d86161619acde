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

	authadapter "cityscope/internal/adapters/auth"
	dbadapter "cityscope/internal/adapters/database"
	"cityscope/internal/adapters/httpapi"
	"cityscope/internal/adapters/httpapi/middleware"
	redisadapter "cityscope/internal/adapters/redis"
	"cityscope/internal/adapters/storage"
	"cityscope/internal/config"
	feedapp "cityscope/internal/core/feed/service"
	interactionapp "cityscope/internal/core/interaction/service"
	postapp "cityscope/internal/core/post/service"
	userapp "cityscope/internal/core/user/service"
	"cityscope/internal/ports/media"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load() // بارگذاری تنظیمات از .env
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync() // flush buffer

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	db, err := config.OpenDB(cfg, logger)
	if err != nil {
		logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	defer config.CloseDB(db, logger)

	if err := dbadapter.AutoMigrate(db); err != nil {
		logger.Fatal("Error during migrations", zap.Error(err))
	}
	logger.Info("✅ Database migrations completed")

	// اتصال به Redis؛ در صورت در دسترس نبودن سرویس بدون کش ادامه می‌دهد
	redisClient := config.OpenRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		logger.Fatal("Error initializing media uploader", zap.Error(err))
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(db)                                           // آداپتر خروجی
	postRepo := dbadapter.NewPostRepositoryDatabase(db)                                           // آداپتر خروجی
	summaryCache := redisadapter.NewSummaryCacheRedis(redisClient, cfg.SummaryCacheTTL(), logger) // آداپتر خروجی
	tokens := authadapter.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL())

	userSvc := userapp.NewUserService(userRepo, postRepo, summaryCache, tokens, uploader, cfg.MaxUploadSizeBytes(), logger) // یوزکیس/سرویس
	projector := postapp.NewProjector(userSvc)
	postSvc := postapp.NewPostService(postRepo, userRepo, uploader, projector, cfg.MaxUploadSizeBytes(), logger)
	feedSvc := feedapp.NewFeedService(postRepo, projector, cfg.FeedMaxPageSize, logger)
	interactionSvc := interactionapp.NewInteractionService(postRepo, userRepo, projector, logger)

	var limiter middleware.Limiter
	if redisClient != nil && cfg.AppEnv != "development" && cfg.AppEnv != "test" {
		limiter = redisadapter.NewRateLimiterRedis(redisClient, cfg.RateLimitWrites, cfg.RateLimitWindow())
	}

	opts := httpapi.Options{
		Verifier:        tokens,
		Limiter:         limiter,
		Logger:          logger,
		MaxUploadSize:   cfg.MaxUploadSizeBytes(),
		DefaultPageSize: cfg.FeedDefaultPageSize,
	}
	if cfg.MediaBackend == "disk" {
		opts.MediaDir = cfg.MediaDir
	}
	r := httpapi.SetupRoutes(userSvc, postSvc, feedSvc, interactionSvc, opts) // تزریق یوزکیس به آداپتر ورودی

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func newUploader(ctx context.Context, cfg *config.Config) (media.Uploader, error) {
	if cfg.MediaBackend == "s3" {
		return storage.NewS3Uploader(ctx, cfg.S3BucketName, cfg.AWSRegion)
	}
	return storage.NewDiskUploader(cfg.MediaDir, cfg.MediaBaseURL)
}
