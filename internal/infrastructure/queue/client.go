package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"scenes-backend/internal/shared"
	"scenes-backend/pkg/logger"
)

// enqueuer is the part of *asynq.Client the task client uses.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskClient enqueues scene background tasks.
type TaskClient struct {
	client   enqueuer
	maxRetry int
}

func NewTaskClient(client *asynq.Client, maxRetry int) *TaskClient {
	return &TaskClient{client: client, maxRetry: maxRetry}
}

// EnqueueDeleteSceneImage schedules removal of a deleted scene's image.
// The task id is derived from the scene, so repeats collapse into one task.
func (c *TaskClient) EnqueueDeleteSceneImage(ctx context.Context, payload shared.DeleteSceneImagePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeleteSceneImage, raw)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(c.maxRetry),
		asynq.TaskID("delete-image:"+payload.SceneID),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue %s: %w", shared.TypeDeleteSceneImage, err)
	}

	logger.Info("Enqueued scene image cleanup", map[string]interface{}{
		"task_id":  info.ID,
		"scene_id": payload.SceneID,
		"queue":    info.Queue,
	})
	return nil
}
