package shared

// Background task types
const (
	TypeDeleteSceneImage  = "scene:delete_image"
	TypeSweepOrphanImages = "scene:sweep_orphan_images"
)

// Queues
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// SceneImagePrefix is the object storage prefix of re-hosted scene images.
const SceneImagePrefix = "scenes/"

// DeleteSceneImagePayload is the payload of TypeDeleteSceneImage.
type DeleteSceneImagePayload struct {
	SceneID  string `json:"sceneId"`
	ImageKey string `json:"imageKey"`
}

// SweepOrphanImagesPayload is the payload of TypeSweepOrphanImages.
// Objects younger than GraceMinutes are kept: their scene may not be
// committed yet.
type SweepOrphanImagesPayload struct {
	Prefix       string `json:"prefix"`
	GraceMinutes int    `json:"graceMinutes"`
}
