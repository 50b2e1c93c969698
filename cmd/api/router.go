package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sceneHandler "scenes-backend/internal/domains/scene/handler"
	"scenes-backend/internal/shared/middleware"
	"scenes-backend/pkg/container"
)

// healthSource is implemented by *container.Container.
type healthSource interface {
	HealthStatus(ctx context.Context) (map[string]string, bool)
}

func SetupRouter(c *container.Container) *gin.Engine {
	return newRouter(c.SceneHandler, c, c.Config.App.Version)
}

func newRouter(scenes *sceneHandler.SceneHandler, health healthSource, version string) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	router.GET("/health", healthCheckHandler(health, version))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	scenes.RegisterRoutes(router.Group("/scenes"))

	return router
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(health healthSource, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services, healthy := health.HealthStatus(ctx)

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
			"services":  services,
		})
	}
}
