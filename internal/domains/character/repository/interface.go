package repository

import (
	"context"

	"github.com/google/uuid"

	"scenes-backend/internal/domains/character/model"
)

type CharacterRepository interface {
	// GetByID returns model.ErrCharacterNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Character, error)

	// ListIDsByUser returns the ids of every character owned by userID.
	ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
