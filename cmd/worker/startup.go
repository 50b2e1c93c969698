package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"scenes-backend/pkg/container"
)

// startupCheck is one named dependency probe.
type startupCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// startServices runs the startup health checks and starts the health endpoint
func startServices(c *container.Container, cfg *Config) error {
	log.Info().Msg("Scenes worker starting")

	checks := []startupCheck{
		{"Redis Connection", c.Cache.Ping},
		{"Object Storage", c.Storage.HealthCheck},
	}
	if err := runChecks(checks); err != nil {
		return err
	}

	go startHealthCheckServer(cfg.Worker.HealthListenAddr, c)

	return nil
}

// runChecks runs every check in order and stops at the first failure
func runChecks(checks []startupCheck) error {
	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()

		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Startup check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Startup check OK")
	}
	return nil
}

// startHealthCheckServer serves /health and /ready for the orchestrator
func startHealthCheckServer(addr string, c *container.Container) {
	gin.SetMode(gin.ReleaseMode)

	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHealthRouter(c.Cache.Ping),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}

func newHealthRouter(ready func(ctx context.Context) error) *gin.Engine {
	router := gin.New()

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "scenes-worker"})
	})

	// ready means the queue backend is reachable
	router.GET("/ready", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ready(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	return router
}
