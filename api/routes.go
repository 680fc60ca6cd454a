package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/dubber-api/api/health"
	"github.com/killallgit/dubber-api/api/middleware"
	"github.com/killallgit/dubber-api/api/sessions"
	"github.com/killallgit/dubber-api/api/types"
	"github.com/killallgit/dubber-api/api/version"
	_ "github.com/killallgit/dubber-api/docs/swagger"
	"github.com/killallgit/dubber-api/internal/services/cache"
	"github.com/killallgit/dubber-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Burst allows the polling endpoints; sustained rate caps session churn
	sessionGroup := v1.Group("/sessions")
	sessionGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 20, 40))

	// Finished audio is immutable, serve repeats from the response cache
	audioCache := middleware.CacheMiddleware(middleware.CacheConfig{
		Cache:      cache.NewMemoryCache(16),
		DefaultTTL: time.Minute,
		Enabled:    true,
	})

	sessions.RegisterRoutes(sessionGroup, deps, audioCache)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
