package repository_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	characterRepo "scenes-backend/internal/domains/character/repository"
	characterService "scenes-backend/internal/domains/character/service"
	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/domains/scene/repository"
	sceneService "scenes-backend/internal/domains/scene/service"
	"scenes-backend/internal/infrastructure/database"
	"scenes-backend/migrations"
)

// SceneStoreSuite runs the scene store against a real PostgreSQL with the
// embedded schema applied.
type SceneStoreSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	pool        *pgxpool.Pool
	scenes      repository.SceneRepository
	service     sceneService.ServiceInterface
}

func (s *SceneStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("scenes_test"),
		postgres.WithUsername("scenes"),
		postgres.WithPassword("scenes"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(s.T(), err, "failed to start postgres container")

	dsn, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	s.pool, err = pgxpool.New(s.ctx, dsn)
	require.NoError(s.T(), err)

	migrator := database.NewMigrator(database.MigrationConfig{MigrationsFS: migrations.FS}, s.pool)
	require.NoError(s.T(), migrator.Up(s.ctx))

	version, dirty, err := migrator.Version(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), uint(2), version)
	require.False(s.T(), dirty)

	s.scenes = repository.NewPostgresSceneRepository(s.pool)
	resolver := characterService.NewResolver(characterRepo.NewPostgresCharacterRepository(s.pool))
	s.service = sceneService.NewSceneService(s.scenes, resolver, nil, nil, nil)
}

func (s *SceneStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.T().Logf("failed to terminate postgres container: %v", err)
		}
	}
}

func (s *SceneStoreSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE scenes, characters`)
	s.Require().NoError(err)
}

// ========================================
// HELPERS
// ========================================

func (s *SceneStoreSuite) insertCharacter(userID uuid.UUID, name string) uuid.UUID {
	var id uuid.UUID
	err := s.pool.QueryRow(s.ctx,
		`INSERT INTO characters (user_id, name, description) VALUES ($1, $2, $3) RETURNING id`,
		userID, name, name+" description",
	).Scan(&id)
	s.Require().NoError(err)
	return id
}

// createScene goes through Create, then pins created_at so ordering is
// deterministic.
func (s *SceneStoreSuite) createScene(characterID uuid.UUID, createdAt time.Time) *model.Scene {
	scene := model.NewScene(characterID, "prompt", "caption", "https://img.example/x.png", "")
	s.Require().NoError(s.scenes.Create(s.ctx, scene))

	_, err := s.pool.Exec(s.ctx, `UPDATE scenes SET created_at = $2 WHERE id = $1`, scene.ID, createdAt)
	s.Require().NoError(err)
	scene.CreatedAt = createdAt
	return scene
}

func sceneIDs(scenes []*model.Scene) []uuid.UUID {
	ids := make([]uuid.UUID, len(scenes))
	for i, sc := range scenes {
		ids[i] = sc.ID
	}
	return ids
}

// ========================================
// TESTS
// ========================================

func (s *SceneStoreSuite) TestCreateAndFetchDetail() {
	owner := uuid.New()
	charID := s.insertCharacter(owner, "Mira")

	scene := model.NewScene(charID, "a walk at dusk", "Mira walks home.", "https://img.example/1.png", "scenes/1.jpg")
	s.Require().NoError(s.scenes.Create(s.ctx, scene))
	s.NotEqual(uuid.Nil, scene.ID)
	s.False(scene.CreatedAt.IsZero())

	detail, err := s.scenes.GetDetailByID(s.ctx, scene.ID)
	s.Require().NoError(err)
	s.Equal(charID, detail.CharacterID)
	s.Equal("Mira walks home.", detail.SceneCaption)
	s.Equal("scenes/1.jpg", detail.ImageKey)
	s.Require().NotNil(detail.Character)
	s.Equal(owner, detail.Character.UserID)
	s.Equal("Mira", detail.Character.Name)

	_, err = s.scenes.GetDetailByID(s.ctx, uuid.New())
	s.ErrorIs(err, model.ErrSceneNotFound)
}

func (s *SceneStoreSuite) TestDetailWithDanglingCharacter() {
	missing := uuid.New()
	scene := s.createScene(missing, time.Now().UTC())

	detail, err := s.scenes.GetDetailByID(s.ctx, scene.ID)
	s.Require().NoError(err)
	s.Equal(missing, detail.CharacterID)
	s.Nil(detail.Character)
}

func (s *SceneStoreSuite) TestBlankCaptionRejected() {
	scene := model.NewScene(uuid.New(), "prompt", "   ", "https://img.example/x.png", "")
	s.Error(s.scenes.Create(s.ctx, scene))
}

func (s *SceneStoreSuite) TestExplorePartitionsByOwner() {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	alice, bob := uuid.New(), uuid.New()
	a1 := s.insertCharacter(alice, "a1")
	a2 := s.insertCharacter(alice, "a2")
	b1 := s.insertCharacter(bob, "b1")

	s1 := s.createScene(a1, base)
	s2 := s.createScene(b1, base.Add(time.Minute))
	s3 := s.createScene(a2, base.Add(2*time.Minute))
	s4 := s.createScene(a1, base.Add(3*time.Minute))

	own, err := s.service.ExploreOwn(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{s4.ID, s3.ID, s1.ID}, sceneIDs(own))

	feed, err := s.service.ExploreFeed(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{s2.ID}, sceneIDs(feed))

	byUser, err := s.service.ByUser(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{s1.ID, s3.ID, s4.ID}, sceneIDs(byUser))

	byCharacter, err := s.service.ByCharacter(s.ctx, a1)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{s1.ID, s4.ID}, sceneIDs(byCharacter))
}

func (s *SceneStoreSuite) TestEmptyOwnedSet() {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c1 := s.insertCharacter(uuid.New(), "c1")
	c2 := s.insertCharacter(uuid.New(), "c2")
	first := s.createScene(c1, base)
	second := s.createScene(c2, base.Add(time.Minute))

	stranger := uuid.New()

	feed, err := s.service.ExploreFeed(s.ctx, stranger)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{second.ID, first.ID}, sceneIDs(feed))

	direct, err := s.scenes.ListExcludingCharacters(s.ctx, nil, model.OrderNewestFirst)
	s.Require().NoError(err)
	s.Len(direct, 2)

	own, err := s.service.ExploreOwn(s.ctx, stranger)
	s.Require().NoError(err)
	s.NotNil(own)
	s.Empty(own)

	none, err := s.scenes.ListByCharacters(s.ctx, nil, model.OrderDefault)
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *SceneStoreSuite) TestOrderingBreaksTiesByID() {
	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	charID := s.insertCharacter(uuid.New(), "twin")
	x := s.createScene(charID, at)
	y := s.createScene(charID, at)

	lo, hi := x.ID, y.ID
	if bytes.Compare(lo[:], hi[:]) > 0 {
		lo, hi = hi, lo
	}

	newest, err := s.scenes.ListByCharacters(s.ctx, []uuid.UUID{charID}, model.OrderNewestFirst)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{hi, lo}, sceneIDs(newest))

	oldest, err := s.scenes.ListByCharacter(s.ctx, charID)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{lo, hi}, sceneIDs(oldest))
}

func (s *SceneStoreSuite) TestDeleteRequiresOwner() {
	owner := uuid.New()
	charID := s.insertCharacter(owner, "Mira")
	scene := s.createScene(charID, time.Now().UTC())

	err := s.service.DeleteScene(s.ctx, scene.ID, uuid.New())
	s.ErrorIs(err, model.ErrForbidden)

	still, err := s.scenes.GetByID(s.ctx, scene.ID)
	s.Require().NoError(err)
	s.Equal(scene.ID, still.ID)

	s.Require().NoError(s.service.DeleteScene(s.ctx, scene.ID, owner))

	_, err = s.scenes.GetByID(s.ctx, scene.ID)
	s.ErrorIs(err, model.ErrSceneNotFound)

	err = s.service.DeleteScene(s.ctx, scene.ID, owner)
	s.ErrorIs(err, model.ErrSceneNotFound)
}

func (s *SceneStoreSuite) TestDeleteDanglingCharacterIsForbidden() {
	scene := s.createScene(uuid.New(), time.Now().UTC())

	err := s.service.DeleteScene(s.ctx, scene.ID, uuid.New())
	s.ErrorIs(err, model.ErrForbidden)

	_, err = s.scenes.GetByID(s.ctx, scene.ID)
	s.NoError(err)
}

func (s *SceneStoreSuite) TestReferencedImageKeys() {
	charID := s.insertCharacter(uuid.New(), "Mira")
	scene := model.NewScene(charID, "p", "c", "https://img.example/k.jpg", "scenes/kept.jpg")
	s.Require().NoError(s.scenes.Create(s.ctx, scene))

	refs, err := s.scenes.ReferencedImageKeys(s.ctx, []string{"scenes/kept.jpg", "scenes/orphan.jpg"})
	s.Require().NoError(err)
	s.True(refs["scenes/kept.jpg"])
	s.False(refs["scenes/orphan.jpg"])
}

func TestSceneStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	suite.Run(t, new(SceneStoreSuite))
}
