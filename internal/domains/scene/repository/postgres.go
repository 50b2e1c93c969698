package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	characterModel "scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/shared/utils"
	"scenes-backend/pkg/database"
)

const sceneColumns = `
	s.id, s.character_id, s.prompt, s.scene_image_url, s.scene_caption,
	s.likes, s.comments, s.views, s.image_key, s.created_at, s.updated_at`

type postgresSceneRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSceneRepository(pool *pgxpool.Pool) SceneRepository {
	return &postgresSceneRepository{pool: pool}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresSceneRepository) Create(ctx context.Context, scene *model.Scene) error {
	query := `
		INSERT INTO scenes (
			character_id, prompt, scene_image_url, scene_caption,
			likes, comments, views, image_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		scene.CharacterID, scene.Prompt, scene.SceneImageURL, scene.SceneCaption,
		scene.Likes, scene.Comments, scene.Views, scene.ImageKey,
	).Scan(&scene.ID, &scene.CreatedAt, &scene.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresSceneRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Scene, error) {
	query := `SELECT` + sceneColumns + ` FROM scenes s WHERE s.id = $1`

	scene, err := scanScene(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSceneNotFound
		}
		return nil, fmt.Errorf("failed to get scene: %w", err)
	}
	return scene, nil
}

func (r *postgresSceneRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*model.SceneDetail, error) {
	query := `
		SELECT` + sceneColumns + `,
			c.id, c.user_id, c.name, c.description, c.created_at, c.updated_at
		FROM scenes s
		LEFT JOIN characters c ON c.id = s.character_id
		WHERE s.id = $1
	`

	var (
		s       model.Scene
		charID  *uuid.UUID
		userID  *uuid.UUID
		name    *string
		desc    *string
		created *time.Time
		updated *time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CharacterID, &s.Prompt, &s.SceneImageURL, &s.SceneCaption,
		&s.Likes, &s.Comments, &s.Views, &s.ImageKey, &s.CreatedAt, &s.UpdatedAt,
		&charID, &userID, &name, &desc, &created, &updated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSceneNotFound
		}
		return nil, fmt.Errorf("failed to get scene detail: %w", err)
	}

	detail := &model.SceneDetail{Scene: s}
	if charID != nil {
		detail.Character = &characterModel.Character{
			ID:          *charID,
			UserID:      derefUUID(userID),
			Name:        derefString(name),
			Description: derefString(desc),
			CreatedAt:   derefTime(created),
			UpdatedAt:   derefTime(updated),
		}
	}
	return detail, nil
}

func (r *postgresSceneRepository) ListByCharacter(ctx context.Context, characterID uuid.UUID) ([]*model.Scene, error) {
	query := `SELECT` + sceneColumns + `
		FROM scenes s
		WHERE s.character_id = $1
		` + orderClause(model.OrderDefault)

	return r.list(ctx, query, characterID)
}

func (r *postgresSceneRepository) ListByCharacters(ctx context.Context, ids []uuid.UUID, order model.SortOrder) ([]*model.Scene, error) {
	if len(ids) == 0 {
		return []*model.Scene{}, nil
	}

	query := `SELECT` + sceneColumns + `
		FROM scenes s
		WHERE s.character_id = ANY($1::text[]::uuid[])
		` + orderClause(order)

	return r.list(ctx, query, pq.StringArray(utils.UUIDStrings(ids)))
}

func (r *postgresSceneRepository) ListExcludingCharacters(ctx context.Context, ids []uuid.UUID, order model.SortOrder) ([]*model.Scene, error) {
	if len(ids) == 0 {
		return r.list(ctx, `SELECT`+sceneColumns+` FROM scenes s `+orderClause(order))
	}

	query := `SELECT` + sceneColumns + `
		FROM scenes s
		WHERE NOT (s.character_id = ANY($1::text[]::uuid[]))
		` + orderClause(order)

	return r.list(ctx, query, pq.StringArray(utils.UUIDStrings(ids)))
}

func (r *postgresSceneRepository) ReferencedImageKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	referenced := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return referenced, nil
	}

	query := `SELECT image_key FROM scenes WHERE image_key = ANY($1::text[])`

	rows, err := r.pool.Query(ctx, query, pq.StringArray(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to query image keys: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan image keys: %w", err)
	}
	for _, key := range found {
		referenced[key] = true
	}
	return referenced, nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresSceneRepository) Delete(ctx context.Context, id uuid.UUID, guard DeleteGuard) (*model.Scene, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Scene, error) {
		// Step 1: Lock the row so the ownership check and delete see the same scene
		query := `SELECT` + sceneColumns + ` FROM scenes s WHERE s.id = $1 FOR UPDATE`
		scene, err := scanScene(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrSceneNotFound
			}
			return nil, fmt.Errorf("failed to lock scene: %w", err)
		}

		// Step 2: Guard
		if guard != nil {
			if err := guard(scene); err != nil {
				return nil, err
			}
		}

		// Step 3: Delete
		if _, err := tx.Exec(ctx, `DELETE FROM scenes WHERE id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to delete scene: %w", err)
		}
		return scene, nil
	})
}

// =====================================================
// HELPERS
// =====================================================

func (r *postgresSceneRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Scene, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	defer rows.Close()

	scenes := make([]*model.Scene, 0)
	for rows.Next() {
		scene, err := scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		scenes = append(scenes, scene)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenes: %w", err)
	}
	return scenes, nil
}

func scanScene(row pgx.Row) (*model.Scene, error) {
	s := &model.Scene{}
	err := row.Scan(
		&s.ID, &s.CharacterID, &s.Prompt, &s.SceneImageURL, &s.SceneCaption,
		&s.Likes, &s.Comments, &s.Views, &s.ImageKey, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func orderClause(order model.SortOrder) string {
	if order == model.OrderNewestFirst {
		return "ORDER BY s.created_at DESC, s.id DESC"
	}
	return "ORDER BY s.created_at ASC, s.id ASC"
}

func derefUUID(v *uuid.UUID) uuid.UUID {
	if v == nil {
		return uuid.Nil
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefTime(v *time.Time) time.Time {
	if v == nil {
		return time.Time{}
	}
	return *v
}
