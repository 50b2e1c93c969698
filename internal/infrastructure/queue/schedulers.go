package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"scenes-backend/internal/config"
	"scenes-backend/internal/shared"
	"scenes-backend/pkg/logger"
)

// registrar is the part of *asynq.Scheduler used to register cron jobs.
type registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	registrar registrar
	jobConfig config.WorkerConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		registrar: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepOrphanImagesJob()
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

// ================================================
// JOB: Sweep Orphan Scene Images (Daily at 3 AM UTC)
// ================================================
func (s *Scheduler) registerSweepOrphanImagesJob() error {
	payload, err := json.Marshal(shared.SweepOrphanImagesPayload{
		Prefix:       shared.SceneImagePrefix,
		GraceMinutes: s.jobConfig.SweepGraceMinutes,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepOrphanImages, payload)

	_, err = s.registrar.Register(
		s.jobConfig.SweepCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(15*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepOrphanImages job", err)
		return err
	}

	logger.Info("✓ Registered SweepOrphanImages", map[string]interface{}{
		"cron": s.jobConfig.SweepCron,
	})
	return nil
}
