package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/pkg/cache"
)

// cachedSceneRepository serves GetDetailByID from the cache and evicts on
// Delete. Scenes are immutable, so no other write needs invalidation.
// Cache failures degrade to the underlying store.
//
// Delete leaves a tombstone before evicting. A reader that loaded the row
// before the delete committed checks the tombstone after filling the cache
// and evicts its own entry, so a deleted scene is never served again.
type cachedSceneRepository struct {
	SceneRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedSceneRepository(next SceneRepository, c cache.Cache, ttl time.Duration) SceneRepository {
	return &cachedSceneRepository{
		SceneRepository: next,
		cache:           c,
		ttl:             ttl,
	}
}

func SceneDetailKey(id uuid.UUID) string {
	return fmt.Sprintf("scene:detail:%s", id)
}

func SceneTombstoneKey(id uuid.UUID) string {
	return fmt.Sprintf("scene:deleted:%s", id)
}

// tombstoneTTL outlives any read that started before the delete.
func (r *cachedSceneRepository) tombstoneTTL() time.Duration {
	if r.ttl < time.Minute {
		return time.Minute
	}
	return r.ttl
}

func (r *cachedSceneRepository) isTombstoned(ctx context.Context, id uuid.UUID) bool {
	var deleted bool
	found, err := r.cache.Get(ctx, SceneTombstoneKey(id), &deleted)
	if err != nil {
		log.Warn().Err(err).Str("scene_id", id.String()).Msg("[CACHE] Tombstone check failed")
		return false
	}
	return found && deleted
}

func (r *cachedSceneRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*model.SceneDetail, error) {
	key := SceneDetailKey(id)

	var cached model.SceneDetail
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[CACHE] Get failed, falling back to store")
	} else if found {
		// character is serialised as the joined object only
		if cached.Character != nil {
			cached.CharacterID = cached.Character.ID
		}
		return &cached, nil
	}

	detail, err := r.SceneRepository.GetDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, detail, r.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[CACHE] Set failed")
		return detail, nil
	}

	// a delete may have committed and evicted while the row was in flight
	if r.isTombstoned(ctx, id) {
		if err := r.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[CACHE] Evict of stale entry failed")
		}
		return nil, model.ErrSceneNotFound
	}
	return detail, nil
}

func (r *cachedSceneRepository) Delete(ctx context.Context, id uuid.UUID, guard DeleteGuard) (*model.Scene, error) {
	scene, err := r.SceneRepository.Delete(ctx, id, guard)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, SceneTombstoneKey(id), true, r.tombstoneTTL()); err != nil {
		log.Warn().Err(err).Str("scene_id", id.String()).Msg("[CACHE] Tombstone write failed")
	}
	if err := r.cache.Delete(ctx, SceneDetailKey(id)); err != nil {
		log.Warn().Err(err).Str("scene_id", id.String()).Msg("[CACHE] Evict failed")
	}
	return scene, nil
}
