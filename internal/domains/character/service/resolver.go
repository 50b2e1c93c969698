package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/character/repository"
)

// Resolver looks characters up for the scene pipeline and feeds.
type Resolver struct {
	repo repository.CharacterRepository
}

func NewResolver(repo repository.CharacterRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the character or model.ErrCharacterNotFound.
// It never returns (nil, nil).
func (r *Resolver) Resolve(ctx context.Context, id uuid.UUID) (*model.Character, error) {
	character, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCharacterNotFound) {
			log.Debug().Str("character_id", id.String()).Msg("No character found with that ID")
			return nil, model.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("resolve character %s: %w", id, err)
	}
	if character == nil {
		return nil, model.ErrCharacterNotFound
	}
	return character, nil
}

// OwnedCharacterIDs returns the ids of userID's characters; empty, not an
// error, when the user has none.
func (r *Resolver) OwnedCharacterIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.repo.ListIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list characters of user %s: %w", userID, err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
