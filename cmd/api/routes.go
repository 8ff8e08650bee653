package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"homeradar-properties/internal/middleware"
	"homeradar-properties/pkg/cache"
	"homeradar-properties/pkg/database"
	"homeradar-properties/pkg/logger"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupHealthCheck()
	a.setupMetricsEndpoint()
	a.setupAPIRoutes()
}

// setupMetricsEndpoint exposes Prometheus metrics
func (a *App) setupMetricsEndpoint() {
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupHealthCheck configures the health check endpoint
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := database.MongoClient.Ping(ctx, nil); err != nil {
			logger.GlobalLogger.Printf("MongoDB ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "MongoDB unavailable"})
			return
		}

		if _, err := cache.RedisClient.Ping(ctx).Result(); err != nil {
			logger.GlobalLogger.Printf("Redis ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")
	{
		// Public routes
		api.POST("/register", a.UserHandler.Register)
		api.POST("/login", a.UserHandler.Login)

		// Protected routes
		protected := api.Group("/properties")
		protected.Use(middleware.AuthMiddleware(a.Config.JWT.Secret))
		{
			protected.GET("", a.PropertyHandler.GetProperties)
			protected.GET("/search", a.PropertyHandler.SearchByRadius)
			protected.GET("/external/:externalId", a.PropertyHandler.GetPropertyByExternalID)
			protected.GET("/:id", a.PropertyHandler.GetPropertyByID)
			protected.GET("/:id/sales", a.PropertyHandler.GetPropertySales)
			protected.GET("/:id/maintenance", a.PropertyHandler.GetPropertyMaintenance)
			protected.GET("/:id/disasters", a.PropertyHandler.GetPropertyDisasters)
			protected.POST("", a.PropertyHandler.CreateProperty)
			protected.PUT("/:id", a.PropertyHandler.UpdateProperty)
			protected.DELETE("/:id", a.PropertyHandler.DeleteProperty)
		}

		ingest := api.Group("/ingestion")
		ingest.Use(middleware.AuthMiddleware(a.Config.JWT.Secret))
		{
			ingest.POST("/listings", a.IngestionHandler.IngestListings)
		}
	}
}
