package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"scenes-backend/internal/shared"
)

// ObjectRemover deletes one stored object; removing a missing key succeeds.
type ObjectRemover interface {
	Delete(ctx context.Context, key string) error
}

// DeleteImageHandler removes the re-hosted image of a deleted scene
type DeleteImageHandler struct {
	store ObjectRemover
}

func NewDeleteImageHandler(store ObjectRemover) *DeleteImageHandler {
	return &DeleteImageHandler{
		store: store,
	}
}

func (h *DeleteImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteSceneImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteSceneImage payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	// Only scene images may be removed through this task
	if !strings.HasPrefix(payload.ImageKey, shared.SceneImagePrefix) {
		log.Warn().
			Str("scene_id", payload.SceneID).
			Str("key", payload.ImageKey).
			Msg("Refusing to delete object outside the scene prefix")
		return fmt.Errorf("invalid image key %q: %w", payload.ImageKey, asynq.SkipRetry)
	}

	if err := h.store.Delete(ctx, payload.ImageKey); err != nil {
		log.Error().
			Err(err).
			Str("scene_id", payload.SceneID).
			Str("key", payload.ImageKey).
			Msg("Failed to delete scene image")
		return fmt.Errorf("delete image: %w", err)
	}

	log.Info().
		Str("scene_id", payload.SceneID).
		Str("key", payload.ImageKey).
		Msg("Scene image deleted")

	return nil
}
