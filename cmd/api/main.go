package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foodies-ua/backend/config"
	"github.com/foodies-ua/backend/internal/api"
	"github.com/foodies-ua/backend/internal/database"
	"github.com/foodies-ua/backend/internal/middleware"
	"github.com/foodies-ua/backend/internal/router"
	"github.com/foodies-ua/backend/internal/server"
	"github.com/foodies-ua/backend/internal/service"
	"github.com/foodies-ua/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			rateLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
				Window: cfg.RateLimitWindow,
				Limit:  cfg.RateLimitRequests,
			})
		}
	}

	avatarStore, err := newAvatarStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize avatar storage", zap.Error(err))
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	recipeService := service.NewRecipeService(db)
	userService := service.NewUserService(db)
	lookupService := service.NewLookupService(db)

	engine := router.Setup(cfg, db,
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService, authService),
		api.NewUserHandler(userService, authService, avatarStore, cfg.MaxAvatarSize),
		api.NewLookupHandler(lookupService),
		router.Options{Logger: logger, RateLimiter: rateLimiter},
	)

	srv := server.New(cfg, engine)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.ServerHost+":"+cfg.ServerPort))
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	}

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newAvatarStore(cfg *config.Config) (storage.AvatarStore, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
	}
	return storage.NewLocalStore(cfg.UploadDir)
}
