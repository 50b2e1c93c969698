package model

import (
	"time"

	"github.com/google/uuid"

	characterModel "scenes-backend/internal/domains/character/model"
)

// Scene is a prompt plus its generated caption and image, attached to one
// character. Everything but the counters is immutable after creation.
type Scene struct {
	ID            uuid.UUID `json:"id"`
	CharacterID   uuid.UUID `json:"character"`
	Prompt        string    `json:"prompt"`
	SceneImageURL string    `json:"sceneImageUrl"`
	SceneCaption  string    `json:"sceneCaption"`
	Likes         int       `json:"likes"`
	Comments      int       `json:"comments"`
	Views         int       `json:"views"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Object-storage key of a re-hosted image; empty when the generator
	// URL was stored as-is.
	ImageKey string `json:"-"`
}

// SceneDetail is a Scene with its character joined.
type SceneDetail struct {
	Scene
	Character *characterModel.Character `json:"character"`
}

// SortOrder selects the ordering of list queries.
type SortOrder int

const (
	// OrderDefault is the store's natural order: oldest first.
	OrderDefault SortOrder = iota
	// OrderNewestFirst sorts by creation time descending.
	OrderNewestFirst
)

// NewScene builds the record the pipeline persists. Counters start at 0;
// id and timestamps are assigned by the store.
func NewScene(characterID uuid.UUID, prompt, caption, imageURL, imageKey string) *Scene {
	return &Scene{
		CharacterID:   characterID,
		Prompt:        prompt,
		SceneCaption:  caption,
		SceneImageURL: imageURL,
		ImageKey:      imageKey,
	}
}

// GeneratedImage is what the image generator hands back. Key is the object
// storage key when the image was re-hosted, empty otherwise.
type GeneratedImage struct {
	URL string
	Key string
}
