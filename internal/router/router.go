package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodies-ua/backend/config"
	"github.com/foodies-ua/backend/internal/api"
	"github.com/foodies-ua/backend/internal/middleware"
)

// Options carries everything the route table needs beyond the handlers.
type Options struct {
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
}

// Setup configures the application routes.
func Setup(
	cfg *config.Config,
	db *gorm.DB,
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	userHandler *api.UserHandler,
	lookupHandler *api.LookupHandler,
	opts Options,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.Recovery(opts.Logger))
	router.Use(middleware.CORS(cfg.CORSAllowOrigins))
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}

	router.GET("/health", api.HealthCheck(db))

	if cfg.StorageDriver == "local" {
		router.Static("/uploads", "uploads")
	}

	apiGroup := router.Group("/api")
	authHandler.RegisterRoutes(apiGroup)
	recipeHandler.RegisterRoutes(apiGroup)
	userHandler.RegisterRoutes(apiGroup)
	lookupHandler.RegisterRoutes(apiGroup)

	return router
}
