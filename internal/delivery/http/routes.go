package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"StockReconciler/internal/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg config.ServerConfig, handler *Handler, logger *slog.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		stock := v1.Group("/stock")
		{
			stock.GET("", handler.ScrapeStock)
			stock.GET("/latest", handler.LatestStock)
		}
		v1.GET("/compare", handler.Compare)
		v1.GET("/suggest", handler.Suggest)
	}

	return router
}
