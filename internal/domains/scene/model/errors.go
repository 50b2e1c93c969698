package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeSceneNotFound     = "SCN001"
	ErrCodeCharacterNotFound = "SCN002"
	ErrCodeForbidden         = "SCN003"
	ErrCodeInvalidCaption    = "SCN004"
	ErrCodeUpstreamFailure   = "SCN005"
	ErrCodeStoreFailure      = "SCN006"
	ErrCodeInvalidRequest    = "SCN007"
)

// Errors
var (
	ErrSceneNotFound     = errors.New("scene not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrForbidden         = errors.New("not the owner of the scene's character")
	ErrInvalidCaption    = errors.New("generated caption is empty")
	ErrUpstreamFailure   = errors.New("generator failed")
	ErrStoreFailure      = errors.New("scene store failed")
)

// SceneError carries a code for the HTTP boundary and wraps the kind
// sentinel plus the underlying cause, so errors.Is works for both.
type SceneError struct {
	Code    string
	Message string
	Kind    error
	Err     error
}

func (e *SceneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SceneError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Error constructors
func NewSceneNotFoundError() *SceneError {
	return &SceneError{
		Code:    ErrCodeSceneNotFound,
		Message: "Scene not found",
		Kind:    ErrSceneNotFound,
	}
}

func NewCharacterNotFoundError() *SceneError {
	return &SceneError{
		Code:    ErrCodeCharacterNotFound,
		Message: "Character not found",
		Kind:    ErrCharacterNotFound,
	}
}

func NewForbiddenError() *SceneError {
	return &SceneError{
		Code:    ErrCodeForbidden,
		Message: "You do not have permission to delete this scene",
		Kind:    ErrForbidden,
	}
}

func NewInvalidCaptionError() *SceneError {
	return &SceneError{
		Code:    ErrCodeInvalidCaption,
		Message: "Generated caption is empty",
		Kind:    ErrInvalidCaption,
	}
}

func NewUpstreamError(step string, err error) *SceneError {
	return &SceneError{
		Code:    ErrCodeUpstreamFailure,
		Message: fmt.Sprintf("%s generation failed", step),
		Kind:    ErrUpstreamFailure,
		Err:     err,
	}
}

func NewStoreError(op string, err error) *SceneError {
	return &SceneError{
		Code:    ErrCodeStoreFailure,
		Message: fmt.Sprintf("failed to %s", op),
		Kind:    ErrStoreFailure,
		Err:     err,
	}
}
