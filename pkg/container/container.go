package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"scenes-backend/internal/config"
	"scenes-backend/internal/infrastructure/ai"
	infraCache "scenes-backend/internal/infrastructure/cache"
	"scenes-backend/internal/infrastructure/database"
	"scenes-backend/internal/infrastructure/queue"
	"scenes-backend/internal/infrastructure/storage"
	"scenes-backend/migrations"
	"scenes-backend/pkg/cache"

	characterRepo "scenes-backend/internal/domains/character/repository"
	characterService "scenes-backend/internal/domains/character/service"
	sceneHandler "scenes-backend/internal/domains/scene/handler"
	sceneRepo "scenes-backend/internal/domains/scene/repository"
	sceneService "scenes-backend/internal/domains/scene/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the dependency graph shared by cmd/api and cmd/worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisCache
	Cache       cache.Cache
	Storage     *storage.MinIOStorage // nil when MinIO is unreachable and re-hosting is off
	AsynqClient *asynq.Client
	TaskClient  *queue.TaskClient
	OpenAI      *openai.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CharacterRepo characterRepo.CharacterRepository
	SceneStore    sceneRepo.SceneRepository // uncached, used by the worker
	SceneRepo     sceneRepo.SceneRepository // cached

	// ========================================
	// SERVICE LAYER
	// ========================================
	CharacterResolver *characterService.Resolver
	CaptionGenerator  *ai.CaptionGenerator
	ImageGenerator    *ai.ImageGenerator
	SceneService      sceneService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	SceneHandler *sceneHandler.SceneHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	if cfg.Database.AutoMigrate {
		migrator := database.NewMigrator(database.MigrationConfig{MigrationsFS: migrations.FS}, db.Pool)
		if err := migrator.Up(ctx); err != nil {
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE + QUEUE
	// ========================================
	c.Redis = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		// cache misses fall through to postgres
		log.Warn().Err(err).Msg("Redis connection failed (non-critical)")
	}
	c.Cache = c.Redis

	c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
	c.TaskClient = queue.NewTaskClient(c.AsynqClient, cfg.Worker.DeleteMaxRetry)

	// ========================================
	// STEP 4: INITIALIZE OBJECT STORAGE
	// ========================================
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		if cfg.OpenAI.RehostImages {
			return nil, fmt.Errorf("failed to init minio: %w", err)
		}
		log.Warn().Err(err).Msg("MinIO unavailable, image cleanup disabled")
	} else {
		c.Storage = minioStorage
		log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("MinIO connected")
	}

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// RedisClientOpt is the asynq connection to the shared Redis.
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CharacterRepo = characterRepo.NewPostgresCharacterRepository(pool)

	c.SceneStore = sceneRepo.NewPostgresSceneRepository(pool)
	ttl := time.Duration(c.Config.Redis.SceneTTLSeconds) * time.Second
	c.SceneRepo = sceneRepo.NewCachedSceneRepository(c.SceneStore, c.Cache, ttl)
}

func (c *Container) initServices() {
	cfg := c.Config.OpenAI

	c.CharacterResolver = characterService.NewResolver(c.CharacterRepo)

	c.OpenAI = ai.NewClient(cfg)
	c.CaptionGenerator = ai.NewCaptionGenerator(c.OpenAI, cfg.CaptionModel, cfg.MaxTokens)

	// a typed nil uploader would still count as re-hosting
	if cfg.RehostImages {
		c.ImageGenerator = ai.NewImageGenerator(c.OpenAI, cfg.ImageModel, cfg.ImageSize, c.Storage, storage.NewImageProcessor())
	} else {
		c.ImageGenerator = ai.NewImageGenerator(c.OpenAI, cfg.ImageModel, cfg.ImageSize, nil, nil)
	}

	c.SceneService = sceneService.NewSceneService(
		c.SceneRepo,
		c.CharacterResolver,
		c.CaptionGenerator,
		c.ImageGenerator,
		c.TaskClient,
	)
}

func (c *Container) initHandlers() {
	c.SceneHandler = sceneHandler.NewSceneHandler(c.SceneService)
}

// ========================================
// HELPER METHODS
// ========================================

// HealthStatus reports each dependency as "up" or "down".
func (c *Container) HealthStatus(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"database": "up", "redis": "up"}
	healthy := true

	if c.DB == nil || c.DB.Ping(ctx) != nil {
		status["database"] = "down"
		healthy = false
	}
	if c.Cache == nil || c.Cache.Ping(ctx) != nil {
		// the API still serves from postgres without redis
		status["redis"] = "down"
	}
	if c.Storage != nil {
		status["storage"] = "up"
		if c.Storage.HealthCheck(ctx) != nil {
			status["storage"] = "down"
		}
	}
	return status, healthy
}

// Cleanup releases connections; called on graceful shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
