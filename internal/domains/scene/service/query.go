package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	characterModel "scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/shared"
	"scenes-backend/pkg/logger"
)

// =====================================================
// QUERIES
// =====================================================

func (s *sceneService) GetByID(ctx context.Context, id uuid.UUID) (*model.SceneDetail, error) {
	detail, err := s.sceneRepo.GetDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSceneNotFound) {
			return nil, model.NewSceneNotFoundError()
		}
		return nil, model.NewStoreError("get scene", err)
	}
	return detail, nil
}

func (s *sceneService) ByCharacter(ctx context.Context, characterID uuid.UUID) ([]*model.Scene, error) {
	scenes, err := s.sceneRepo.ListByCharacter(ctx, characterID)
	if err != nil {
		return nil, model.NewStoreError("list scenes by character", err)
	}
	return nonNil(scenes), nil
}

func (s *sceneService) ByUser(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error) {
	return s.listOwned(ctx, userID, model.OrderDefault)
}

func (s *sceneService) ExploreOwn(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error) {
	return s.listOwned(ctx, userID, model.OrderNewestFirst)
}

// ExploreFeed returns every scene when the user owns no characters.
func (s *sceneService) ExploreFeed(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error) {
	// Step 1: Owned character ids
	owned, err := s.characters.OwnedCharacterIDs(ctx, userID)
	if err != nil {
		return nil, model.NewStoreError("list owned characters", err)
	}

	// Step 2: Everything else
	scenes, err := s.sceneRepo.ListExcludingCharacters(ctx, owned, model.OrderNewestFirst)
	if err != nil {
		return nil, model.NewStoreError("list feed scenes", err)
	}
	return nonNil(scenes), nil
}

func (s *sceneService) listOwned(ctx context.Context, userID uuid.UUID, order model.SortOrder) ([]*model.Scene, error) {
	// Step 1: Owned character ids
	owned, err := s.characters.OwnedCharacterIDs(ctx, userID)
	if err != nil {
		return nil, model.NewStoreError("list owned characters", err)
	}
	if len(owned) == 0 {
		return []*model.Scene{}, nil
	}

	// Step 2: Their scenes
	scenes, err := s.sceneRepo.ListByCharacters(ctx, owned, order)
	if err != nil {
		return nil, model.NewStoreError("list user scenes", err)
	}
	return nonNil(scenes), nil
}

// =====================================================
// DELETE
// =====================================================

func (s *sceneService) DeleteScene(ctx context.Context, sceneID, requesterID uuid.UUID) error {
	// Step 1-3: Lock the scene, check its character belongs to the requester, delete
	deleted, err := s.sceneRepo.Delete(ctx, sceneID, func(scene *model.Scene) error {
		character, err := s.characters.Resolve(ctx, scene.CharacterID)
		if err != nil {
			if errors.Is(err, characterModel.ErrCharacterNotFound) {
				// dangling reference: nobody owns it
				return model.NewForbiddenError()
			}
			return err
		}
		if !character.IsOwnedBy(requesterID) {
			return model.NewForbiddenError()
		}
		return nil
	})
	if err != nil {
		var sceneErr *model.SceneError
		switch {
		case errors.As(err, &sceneErr):
			if sceneErr.Code == model.ErrCodeForbidden {
				log.Warn().
					Str("scene_id", sceneID.String()).
					Str("requester_id", requesterID.String()).
					Msg("Delete refused: requester does not own the scene")
			}
			return sceneErr
		case errors.Is(err, model.ErrSceneNotFound):
			return model.NewSceneNotFoundError()
		default:
			return model.NewStoreError("delete scene", err)
		}
	}

	logger.Info("Scene deleted", map[string]interface{}{
		"scene_id":     sceneID.String(),
		"requester_id": requesterID.String(),
	})

	// Step 4: Clean up the re-hosted image in the background
	if deleted.ImageKey != "" && s.tasks != nil {
		payload := shared.DeleteSceneImagePayload{
			SceneID:  sceneID.String(),
			ImageKey: deleted.ImageKey,
		}
		if err := s.tasks.EnqueueDeleteSceneImage(ctx, payload); err != nil {
			logger.Error("Failed to enqueue scene image cleanup", err)
		}
	}

	return nil
}

func nonNil(scenes []*model.Scene) []*model.Scene {
	if scenes == nil {
		return []*model.Scene{}
	}
	return scenes
}
