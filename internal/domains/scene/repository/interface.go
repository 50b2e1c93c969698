package repository

import (
	"context"

	"github.com/google/uuid"

	"scenes-backend/internal/domains/scene/model"
)

// DeleteGuard runs against the locked row before it is removed; a non-nil
// error aborts the delete.
type DeleteGuard func(scene *model.Scene) error

// =====================================================
// SCENE REPOSITORY INTERFACE
// =====================================================

type SceneRepository interface {
	// Create inserts the scene and fills in id, createdAt and updatedAt.
	Create(ctx context.Context, scene *model.Scene) error

	// GetByID returns model.ErrSceneNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Scene, error)

	// GetDetailByID is GetByID with the character joined. Character is nil
	// when the reference dangles.
	GetDetailByID(ctx context.Context, id uuid.UUID) (*model.SceneDetail, error)

	ListByCharacter(ctx context.Context, characterID uuid.UUID) ([]*model.Scene, error)

	// ListByCharacters returns scenes whose character is in ids.
	ListByCharacters(ctx context.Context, ids []uuid.UUID, order model.SortOrder) ([]*model.Scene, error)

	// ListExcludingCharacters returns scenes whose character is not in ids;
	// every scene when ids is empty.
	ListExcludingCharacters(ctx context.Context, ids []uuid.UUID, order model.SortOrder) ([]*model.Scene, error)

	// Delete locks the row, runs guard and removes it in one transaction.
	// Returns the deleted scene.
	Delete(ctx context.Context, id uuid.UUID, guard DeleteGuard) (*model.Scene, error)

	// ReferencedImageKeys returns the subset of keys still used by a scene.
	ReferencedImageKeys(ctx context.Context, keys []string) (map[string]bool, error)
}
