package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"scenes-backend/internal/config"
	"scenes-backend/pkg/container"
)

// Config holds the worker's slice of the application configuration.
type Config struct {
	Redis  asynq.RedisClientOpt
	Worker config.WorkerConfig
}

// loadConfig derives the worker configuration from the container's.
func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		Redis:  c.RedisClientOpt(),
		Worker: c.Config.Worker,
	}

	log.Info().
		Str("redis", cfg.Redis.Addr).
		Int("concurrency", cfg.Worker.Concurrency).
		Str("sweep_cron", cfg.Worker.SweepCron).
		Msg("[Config] Worker configured")

	return cfg
}
