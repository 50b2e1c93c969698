package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	characterModel "scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/shared"
)

// Mock CharacterResolver
type CharacterResolver struct {
	mock.Mock
}

func (m *CharacterResolver) Resolve(ctx context.Context, id uuid.UUID) (*characterModel.Character, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*characterModel.Character)
	return c, args.Error(1)
}
func (m *CharacterResolver) OwnedCharacterIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

// Mock CaptionGenerator
type CaptionGenerator struct {
	mock.Mock
}

func (m *CaptionGenerator) GenerateCaption(ctx context.Context, prompt string, character *characterModel.Character) (string, error) {
	args := m.Called(ctx, prompt, character)
	return args.String(0), args.Error(1)
}

// Mock ImageGenerator
type ImageGenerator struct {
	mock.Mock
}

func (m *ImageGenerator) GenerateImage(ctx context.Context, caption string, character *characterModel.Character) (*model.GeneratedImage, error) {
	args := m.Called(ctx, caption, character)
	img, _ := args.Get(0).(*model.GeneratedImage)
	return img, args.Error(1)
}

// Mock TaskEnqueuer
type TaskEnqueuer struct {
	mock.Mock
}

func (m *TaskEnqueuer) EnqueueDeleteSceneImage(ctx context.Context, payload shared.DeleteSceneImagePayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
