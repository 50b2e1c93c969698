package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	characterModel "scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/scene/mocks"
	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/domains/scene/service"
)

type pipelineFixture struct {
	repo       *memorySceneRepository
	characters *mocks.CharacterResolver
	captions   *mocks.CaptionGenerator
	images     *mocks.ImageGenerator
	tasks      *mocks.TaskEnqueuer
	svc        service.ServiceInterface
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		repo:       newMemorySceneRepository(),
		characters: new(mocks.CharacterResolver),
		captions:   new(mocks.CaptionGenerator),
		images:     new(mocks.ImageGenerator),
		tasks:      new(mocks.TaskEnqueuer),
	}
	f.svc = service.NewSceneService(f.repo, f.characters, f.captions, f.images, f.tasks)
	return f
}

func testCharacter(owner uuid.UUID) *characterModel.Character {
	return &characterModel.Character{
		ID:          uuid.New(),
		UserID:      owner,
		Name:        "Mira",
		Description: "a wandering cartographer",
	}
}

func TestCreateScene_Success(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()
	character := testCharacter(uuid.New())

	f.characters.On("Resolve", mock.Anything, character.ID).Return(character, nil)
	f.captions.On("GenerateCaption", mock.Anything, "a rainy market", character).
		Return("Mira maps the rain-soaked stalls.", nil)
	f.images.On("GenerateImage", mock.Anything, "Mira maps the rain-soaked stalls.", character).
		Return(&model.GeneratedImage{URL: "https://img.test/scenes/a.jpg", Key: "scenes/a.jpg"}, nil)

	scene, err := f.svc.CreateScene(ctx, character.ID, "a rainy market")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, scene.ID)
	assert.Equal(t, character.ID, scene.CharacterID)
	assert.Equal(t, "a rainy market", scene.Prompt)
	assert.Equal(t, "Mira maps the rain-soaked stalls.", scene.SceneCaption)
	assert.Equal(t, "https://img.test/scenes/a.jpg", scene.SceneImageURL)
	assert.Equal(t, "scenes/a.jpg", scene.ImageKey)
	assert.Zero(t, scene.Likes)
	assert.Zero(t, scene.Comments)
	assert.Zero(t, scene.Views)
	assert.False(t, scene.CreatedAt.IsZero())
	assert.Equal(t, 1, f.repo.count())

	stored, err := f.repo.GetByID(ctx, scene.ID)
	require.NoError(t, err)
	assert.Equal(t, scene.SceneCaption, stored.SceneCaption)

	f.characters.AssertExpectations(t)
	f.captions.AssertExpectations(t)
	f.images.AssertExpectations(t)
}

func TestCreateScene_CharacterNotFound(t *testing.T) {
	f := newPipelineFixture()
	id := uuid.New()

	f.characters.On("Resolve", mock.Anything, id).Return(nil, characterModel.ErrCharacterNotFound)

	scene, err := f.svc.CreateScene(context.Background(), id, "anything")
	assert.Nil(t, scene)
	assert.ErrorIs(t, err, model.ErrCharacterNotFound)
	assert.Equal(t, 0, f.repo.count())
	f.captions.AssertNotCalled(t, "GenerateCaption", mock.Anything, mock.Anything, mock.Anything)
	f.images.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateScene_ResolverFailureIsStoreFailure(t *testing.T) {
	f := newPipelineFixture()
	id := uuid.New()

	f.characters.On("Resolve", mock.Anything, id).Return(nil, errBoom)

	_, err := f.svc.CreateScene(context.Background(), id, "anything")
	assert.ErrorIs(t, err, model.ErrStoreFailure)
	assert.ErrorIs(t, err, errBoom)
}

func TestCreateScene_CaptionFailure(t *testing.T) {
	f := newPipelineFixture()
	character := testCharacter(uuid.New())

	f.characters.On("Resolve", mock.Anything, character.ID).Return(character, nil)
	f.captions.On("GenerateCaption", mock.Anything, "p", character).Return("", errBoom)

	_, err := f.svc.CreateScene(context.Background(), character.ID, "p")
	assert.ErrorIs(t, err, model.ErrUpstreamFailure)
	assert.Equal(t, 0, f.repo.count())
	f.images.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateScene_BlankCaptionPersistsNothing(t *testing.T) {
	for _, caption := range []string{"", "   ", "\n\t"} {
		f := newPipelineFixture()
		character := testCharacter(uuid.New())

		f.characters.On("Resolve", mock.Anything, character.ID).Return(character, nil)
		f.captions.On("GenerateCaption", mock.Anything, "p", character).Return(caption, nil)

		_, err := f.svc.CreateScene(context.Background(), character.ID, "p")
		assert.ErrorIs(t, err, model.ErrInvalidCaption, "caption %q", caption)
		assert.Equal(t, 0, f.repo.count())
		f.images.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestCreateScene_ImageFailureLeavesStoreUnchanged(t *testing.T) {
	f := newPipelineFixture()
	character := testCharacter(uuid.New())

	f.characters.On("Resolve", mock.Anything, character.ID).Return(character, nil)
	f.captions.On("GenerateCaption", mock.Anything, "p", character).Return("caption", nil)
	f.images.On("GenerateImage", mock.Anything, "caption", character).Return(nil, errBoom)

	_, err := f.svc.CreateScene(context.Background(), character.ID, "p")
	assert.ErrorIs(t, err, model.ErrUpstreamFailure)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, f.repo.count())
}

func TestCreateScene_EmptyImageURLIsUpstreamFailure(t *testing.T) {
	f := newPipelineFixture()
	character := testCharacter(uuid.New())

	f.characters.On("Resolve", mock.Anything, character.ID).Return(character, nil)
	f.captions.On("GenerateCaption", mock.Anything, "p", character).Return("caption", nil)
	f.images.On("GenerateImage", mock.Anything, "caption", character).Return(&model.GeneratedImage{}, nil)

	_, err := f.svc.CreateScene(context.Background(), character.ID, "p")
	assert.ErrorIs(t, err, model.ErrUpstreamFailure)
	assert.Equal(t, 0, f.repo.count())
}

func TestCreateScene_StoreFailure(t *testing.T) {
	f := newPipelineFixture()
	f.repo.createErr = errBoom
	character := testCharacter(uuid.New())

	f.characters.On("Resolve", mock.Anything, character.ID).Return(character, nil)
	f.captions.On("GenerateCaption", mock.Anything, "p", character).Return("caption", nil)
	f.images.On("GenerateImage", mock.Anything, "caption", character).
		Return(&model.GeneratedImage{URL: "https://img.test/x.jpg"}, nil)

	_, err := f.svc.CreateScene(context.Background(), character.ID, "p")
	assert.ErrorIs(t, err, model.ErrStoreFailure)

	var sceneErr *model.SceneError
	require.True(t, errors.As(err, &sceneErr))
	assert.Equal(t, model.ErrCodeStoreFailure, sceneErr.Code)
}
