package service

import (
	"scenes-backend/internal/domains/scene/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type sceneService struct {
	sceneRepo  repository.SceneRepository
	characters CharacterResolver
	captions   CaptionGenerator
	images     ImageGenerator
	tasks      TaskEnqueuer
}

// NewSceneService wires the pipeline and query service. tasks may be nil,
// in which case image cleanup is left to the orphan sweep.
func NewSceneService(
	sceneRepo repository.SceneRepository,
	characters CharacterResolver,
	captions CaptionGenerator,
	images ImageGenerator,
	tasks TaskEnqueuer,
) ServiceInterface {
	return &sceneService{
		sceneRepo:  sceneRepo,
		characters: characters,
		captions:   captions,
		images:     images,
		tasks:      tasks,
	}
}
