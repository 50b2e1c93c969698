package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/domains/scene/repository"
)

// memorySceneRepository mirrors the postgres ordering and delete semantics.
type memorySceneRepository struct {
	mu        sync.Mutex
	scenes    map[uuid.UUID]*model.Scene
	clock     time.Time
	createErr error
	listErr   error
}

var _ repository.SceneRepository = (*memorySceneRepository)(nil)

func newMemorySceneRepository() *memorySceneRepository {
	return &memorySceneRepository{
		scenes: make(map[uuid.UUID]*model.Scene),
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memorySceneRepository) Create(_ context.Context, scene *model.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.clock = r.clock.Add(time.Second)
	scene.ID = uuid.New()
	scene.CreatedAt = r.clock
	scene.UpdatedAt = r.clock
	stored := *scene
	r.scenes[scene.ID] = &stored
	return nil
}

func (r *memorySceneRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scenes[id]
	if !ok {
		return nil, model.ErrSceneNotFound
	}
	out := *s
	return &out, nil
}

func (r *memorySceneRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*model.SceneDetail, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.SceneDetail{Scene: *s}, nil
}

func (r *memorySceneRepository) ListByCharacter(_ context.Context, characterID uuid.UUID) ([]*model.Scene, error) {
	return r.filter(func(s *model.Scene) bool { return s.CharacterID == characterID }, model.OrderDefault)
}

func (r *memorySceneRepository) ListByCharacters(_ context.Context, ids []uuid.UUID, order model.SortOrder) ([]*model.Scene, error) {
	set := toSet(ids)
	return r.filter(func(s *model.Scene) bool { return set[s.CharacterID] }, order)
}

func (r *memorySceneRepository) ListExcludingCharacters(_ context.Context, ids []uuid.UUID, order model.SortOrder) ([]*model.Scene, error) {
	set := toSet(ids)
	return r.filter(func(s *model.Scene) bool { return !set[s.CharacterID] }, order)
}

func (r *memorySceneRepository) Delete(_ context.Context, id uuid.UUID, guard repository.DeleteGuard) (*model.Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scenes[id]
	if !ok {
		return nil, model.ErrSceneNotFound
	}
	out := *s
	if guard != nil {
		if err := guard(&out); err != nil {
			return nil, err
		}
	}
	delete(r.scenes, id)
	return &out, nil
}

func (r *memorySceneRepository) ReferencedImageKeys(_ context.Context, keys []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	referenced := make(map[string]bool)
	for _, k := range keys {
		for _, s := range r.scenes {
			if s.ImageKey == k {
				referenced[k] = true
			}
		}
	}
	return referenced, nil
}

func (r *memorySceneRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scenes)
}

func (r *memorySceneRepository) filter(keep func(*model.Scene) bool, order model.SortOrder) ([]*model.Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*model.Scene, 0)
	for _, s := range r.scenes {
		if keep(s) {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == model.OrderNewestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

var errBoom = errors.New("boom")
