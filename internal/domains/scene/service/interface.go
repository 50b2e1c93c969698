package service

import (
	"context"

	"github.com/google/uuid"

	characterModel "scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/shared"
)

// =====================================================
// COLLABORATORS
// =====================================================

// CharacterResolver looks characters up. Resolve reports absence as
// characterModel.ErrCharacterNotFound.
type CharacterResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*characterModel.Character, error)
	OwnedCharacterIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// CaptionGenerator turns a prompt into a caption for the character.
type CaptionGenerator interface {
	GenerateCaption(ctx context.Context, prompt string, character *characterModel.Character) (string, error)
}

// ImageGenerator illustrates a caption for the character.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, caption string, character *characterModel.Character) (*model.GeneratedImage, error)
}

// TaskEnqueuer schedules background work.
type TaskEnqueuer interface {
	EnqueueDeleteSceneImage(ctx context.Context, payload shared.DeleteSceneImagePayload) error
}

// =====================================================
// SCENE SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// CreateScene runs resolve -> caption -> image -> persist, stopping at
	// the first failure. Exactly one scene is created, or none.
	CreateScene(ctx context.Context, characterID uuid.UUID, prompt string) (*model.Scene, error)

	// GetByID returns the scene with its character joined.
	GetByID(ctx context.Context, id uuid.UUID) (*model.SceneDetail, error)

	// ByCharacter lists a character's scenes, oldest first.
	ByCharacter(ctx context.Context, characterID uuid.UUID) ([]*model.Scene, error)

	// ByUser lists scenes of every character the user owns, oldest first.
	ByUser(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error)

	// ExploreOwn is ByUser, newest first.
	ExploreOwn(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error)

	// ExploreFeed lists scenes of characters the user does not own, newest first.
	ExploreFeed(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error)

	// DeleteScene removes the scene when requesterID owns its character.
	DeleteScene(ctx context.Context, sceneID, requesterID uuid.UUID) error
}
