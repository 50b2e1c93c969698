package main

import (
	"github.com/hibiken/asynq"

	sceneJob "scenes-backend/internal/domains/scene/job"
	"scenes-backend/internal/shared"
	"scenes-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteSceneImage  *sceneJob.DeleteImageHandler
	sweepOrphanImages *sceneJob.SweepOrphanImagesHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		deleteSceneImage:  sceneJob.NewDeleteImageHandler(c.Storage),
		sweepOrphanImages: sceneJob.NewSweepOrphanImagesHandler(c.Storage, c.SceneStore),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDeleteSceneImage, h.deleteSceneImage.ProcessTask)
	mux.HandleFunc(shared.TypeSweepOrphanImages, h.sweepOrphanImages.ProcessTask)
}
