package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pawcompare/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/compare", handler.CompareProducts)
		v1.GET("/best-value", handler.BestValue)

		products := v1.Group("/products")
		{
			products.GET("/:id/sizes", handler.ProductSizes)
		}
	}

	return router
}
