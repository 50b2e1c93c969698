package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the whole application configuration.
// Populated from environment variables (optionally seeded from .env).
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	OpenAI   OpenAIConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int

	// AutoMigrate applies the embedded schema on startup.
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	// SceneTTLSeconds bounds how long a fetched scene stays in cache.
	SceneTTLSeconds int
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL overrides the scheme://host/bucket prefix of returned object URLs.
	PublicBaseURL string
}

// OpenAIConfig configures both generators. BaseURL allows any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	CaptionModel string
	ImageModel   string
	ImageSize    string
	MaxTokens    int
	// RehostImages uploads generated images to MinIO instead of storing the
	// provider URL, which expires.
	RehostImages bool
}

type WorkerConfig struct {
	Concurrency       int
	SweepCron         string
	SweepGraceMinutes int
	DeleteMaxRetry    int
	HealthListenAddr  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Scenes API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "scenes"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),

			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:            getEnv("REDIS_HOST", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			SceneTTLSeconds: getEnvInt("REDIS_SCENE_TTL", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("MINIO_BUCKET", "scenes"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			BaseURL:      getEnv("OPENAI_BASE_URL", ""),
			CaptionModel: getEnv("OPENAI_CAPTION_MODEL", "gpt-4o-mini"),
			ImageModel:   getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
			ImageSize:    getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
			MaxTokens:    getEnvInt("OPENAI_CAPTION_MAX_TOKENS", 120),
			RehostImages: getEnvBool("OPENAI_REHOST_IMAGES", true),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvInt("WORKER_CONCURRENCY", 10),
			SweepCron:         getEnv("WORKER_SWEEP_CRON", "0 3 * * *"),
			SweepGraceMinutes: getEnvInt("WORKER_SWEEP_GRACE_MINUTES", 60),
			DeleteMaxRetry:    getEnvInt("WORKER_DELETE_MAX_RETRY", 5),
			HealthListenAddr:  getEnv("WORKER_HEALTH_ADDR", ":9999"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that must be present outside development.
func (c *Config) Validate() error {
	if c.Redis.SceneTTLSeconds < 0 {
		return fmt.Errorf("REDIS_SCENE_TTL must not be negative")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}

	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
