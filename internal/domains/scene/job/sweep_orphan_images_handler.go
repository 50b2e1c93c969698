package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"scenes-backend/internal/infrastructure/storage"
	"scenes-backend/internal/shared"
)

const (
	sweepBatchSize     = 500
	defaultGracePeriod = 60 * time.Minute
)

// ObjectStore lists and batch-removes stored objects.
type ObjectStore interface {
	ListObjects(ctx context.Context, prefix string) ([]storage.Object, error)
	RemoveObjects(ctx context.Context, keys []string) error
}

// ImageKeyLookup reports which keys are still referenced by a scene.
type ImageKeyLookup interface {
	ReferencedImageKeys(ctx context.Context, keys []string) (map[string]bool, error)
}

// SweepOrphanImagesHandler removes images no scene references: uploads
// whose scene failed to persist, and deletes whose cleanup task was lost.
type SweepOrphanImagesHandler struct {
	store ObjectStore
	refs  ImageKeyLookup
	now   func() time.Time
}

func NewSweepOrphanImagesHandler(store ObjectStore, refs ImageKeyLookup) *SweepOrphanImagesHandler {
	return &SweepOrphanImagesHandler{
		store: store,
		refs:  refs,
		now:   time.Now,
	}
}

func (h *SweepOrphanImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload := shared.SweepOrphanImagesPayload{Prefix: shared.SceneImagePrefix}
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal SweepOrphanImages payload")
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}
	if payload.Prefix == "" {
		payload.Prefix = shared.SceneImagePrefix
	}
	grace := defaultGracePeriod
	if payload.GraceMinutes > 0 {
		grace = time.Duration(payload.GraceMinutes) * time.Minute
	}

	// Step 1: List candidates old enough to be settled
	objects, err := h.store.ListObjects(ctx, payload.Prefix)
	if err != nil {
		return fmt.Errorf("list objects: %w", err)
	}
	cutoff := h.now().Add(-grace)
	candidates := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) {
			candidates = append(candidates, obj.Key)
		}
	}

	// Step 2: Remove unreferenced ones, batch by batch
	removed := 0
	for start := 0; start < len(candidates); start += sweepBatchSize {
		end := min(start+sweepBatchSize, len(candidates))
		batch := candidates[start:end]

		referenced, err := h.refs.ReferencedImageKeys(ctx, batch)
		if err != nil {
			return fmt.Errorf("lookup image keys: %w", err)
		}

		orphans := make([]string, 0, len(batch))
		for _, key := range batch {
			if !referenced[key] {
				orphans = append(orphans, key)
			}
		}
		if len(orphans) == 0 {
			continue
		}

		if err := h.store.RemoveObjects(ctx, orphans); err != nil {
			return fmt.Errorf("remove orphans: %w", err)
		}
		removed += len(orphans)
	}

	log.Info().
		Str("prefix", payload.Prefix).
		Int("listed", len(objects)).
		Int("removed", removed).
		Msg("Orphan image sweep finished")

	return nil
}
