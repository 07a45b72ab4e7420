package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/trahoangdev/kureno-sub000/controllers"
	"github.com/trahoangdev/kureno-sub000/database"
	"github.com/trahoangdev/kureno-sub000/repository"
	"github.com/trahoangdev/kureno-sub000/routes"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	if err := database.Connect(cfg.MongoURL, cfg.MongoDB); err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}
	db := database.DB

	// --- Redis (non-fatal; cache degrades to pass-through) ---
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	// Structured HTTP request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	})

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewMongoReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	registry := repository.NewMongoEntityRegistry(db)

	exportService := services.NewExportService(registry, logger)
	importService := services.NewImportService(services.ImportTargets{
		Products:   repository.NewMongoImportTarget(db, "products", "sku"),
		Categories: repository.NewMongoImportTarget(db, "categories", "slug"),
		Users:      repository.NewMongoImportTarget(db, "users", "email"),
		Blog:       repository.NewMongoImportTarget(db, "blog_posts", "slug"),
	}, logger)
	reviewService := services.NewReviewService(reviewRepo, logger)
	mediaService, err := services.NewMediaService(context.Background(), cfg.S3Bucket, cfg.S3CDNDomain)
	if err != nil {
		logger.Fatal("Failed to initialize media service", zap.Error(err))
	}

	validator := controllers.NewRequestValidator()
	cache := controllers.NewCacheManager(redisClient, logger)

	ctl := routes.Controllers{
		Products:      controllers.NewProductController(productRepo, categoryRepo, cache, validator, logger),
		Categories:    controllers.NewCategoryController(categoryRepo, validator, logger),
		Blog:          controllers.NewBlogController(blogRepo, validator, logger),
		Orders:        controllers.NewOrderController(orderRepo, validator, logger),
		Users:         controllers.NewUserController(userRepo, validator, logger),
		Reviews:       controllers.NewReviewController(reviewService, reviewRepo, validator, logger),
		Notifications: controllers.NewNotificationController(notificationRepo, validator, logger),
		Messages:      controllers.NewMessageController(messageRepo, validator, logger),
		Export:        controllers.NewExportController(exportService),
		Import:        controllers.NewImportController(importService, cache, validator, logger),
		Upload:        controllers.NewUploadController(mediaService, logger),
	}
	routes.RegisterRoutes(r, ctl, cfg.JWTSecret)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Admin API started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(); err != nil {
		logger.Error("MongoDB close error", zap.Error(err))
	}

	logger.Info("Admin API stopped gracefully")
}
