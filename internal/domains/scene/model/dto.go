package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// REQUEST DTOs
// ========================================

// CreateSceneRequest - POST /scenes/new/:characterId
type CreateSceneRequest struct {
	Prompt string `json:"prompt"`
}

func (r CreateSceneRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt,
			validation.Required.Error("prompt is required"),
			validation.Length(1, 2000).Error("prompt must be 1-2000 characters"),
		),
	)
}

// DeleteSceneRequest - DELETE /scenes/delete/:id
type DeleteSceneRequest struct {
	UserID string `json:"userId"`
}

func (r DeleteSceneRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID,
			validation.Required.Error("userId is required"),
			is.UUID.Error("userId must be a UUID"),
		),
	)
}

// ========================================
// RESPONSE DTOs
// ========================================

type CreateSceneResponse struct {
	SceneID  string `json:"sceneId"`
	NewScene *Scene `json:"newScene"`
}
