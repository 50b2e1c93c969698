package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	characterModel "scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/shared/utils"
)

// =====================================================
// CREATE SCENE PIPELINE
// =====================================================

func (s *sceneService) CreateScene(ctx context.Context, characterID uuid.UUID, prompt string) (*model.Scene, error) {
	logger := log.With().Str("character_id", characterID.String()).Logger()

	// Step 1: Resolve character
	character, err := s.characters.Resolve(ctx, characterID)
	if err != nil {
		if errors.Is(err, characterModel.ErrCharacterNotFound) {
			logger.Warn().Str("step", "resolve").Msg("Character not found")
			return nil, model.NewCharacterNotFoundError()
		}
		logger.Error().Err(err).Str("step", "resolve").Msg("Failed to resolve character")
		return nil, model.NewStoreError("resolve character", err)
	}

	// Step 2: Generate caption
	caption, err := s.captions.GenerateCaption(ctx, prompt, character)
	if err != nil {
		logger.Error().Err(err).Str("step", "caption").Msg("Caption generation failed")
		return nil, model.NewUpstreamError("caption", err)
	}

	// Step 3: Reject empty captions before spending an image generation
	if utils.IsBlank(caption) {
		logger.Error().Str("step", "caption").Msg("Caption generator returned an empty caption")
		return nil, model.NewInvalidCaptionError()
	}
	caption = strings.TrimSpace(caption)

	// Step 4: Generate image
	image, err := s.images.GenerateImage(ctx, caption, character)
	if err != nil {
		logger.Error().Err(err).Str("step", "image").Msg("Image generation failed")
		return nil, model.NewUpstreamError("image", err)
	}
	if image == nil || utils.IsBlank(image.URL) {
		logger.Error().Str("step", "image").Msg("Image generator returned no URL")
		return nil, model.NewUpstreamError("image", errors.New("empty image url"))
	}

	// Step 5: Persist
	scene := model.NewScene(character.ID, prompt, caption, image.URL, image.Key)
	if err := s.sceneRepo.Create(ctx, scene); err != nil {
		logger.Error().Err(err).Str("step", "persist").Msg("Failed to persist scene")
		return nil, model.NewStoreError("create scene", err)
	}

	logger.Info().
		Str("step", "persist").
		Str("scene_id", scene.ID.String()).
		Msg("Scene created")

	return scene, nil
}
