package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scenes-backend/internal/domains/character/model"
)

type postgresCharacterRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCharacterRepository(pool *pgxpool.Pool) CharacterRepository {
	return &postgresCharacterRepository{pool: pool}
}

func (r *postgresCharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Character, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM characters
		WHERE id = $1
	`

	character := &model.Character{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&character.ID,
		&character.UserID,
		&character.Name,
		&character.Description,
		&character.CreatedAt,
		&character.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	return character, nil
}

func (r *postgresCharacterRepository) ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM characters WHERE user_id = $1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan character ids: %w", err)
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
