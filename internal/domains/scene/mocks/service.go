package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"scenes-backend/internal/domains/scene/model"
)

// Mock scene ServiceInterface
type SceneService struct {
	mock.Mock
}

func (m *SceneService) CreateScene(ctx context.Context, characterID uuid.UUID, prompt string) (*model.Scene, error) {
	args := m.Called(ctx, characterID, prompt)
	s, _ := args.Get(0).(*model.Scene)
	return s, args.Error(1)
}
func (m *SceneService) GetByID(ctx context.Context, id uuid.UUID) (*model.SceneDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.SceneDetail)
	return d, args.Error(1)
}
func (m *SceneService) ByCharacter(ctx context.Context, characterID uuid.UUID) ([]*model.Scene, error) {
	args := m.Called(ctx, characterID)
	s, _ := args.Get(0).([]*model.Scene)
	return s, args.Error(1)
}
func (m *SceneService) ByUser(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]*model.Scene)
	return s, args.Error(1)
}
func (m *SceneService) ExploreOwn(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]*model.Scene)
	return s, args.Error(1)
}
func (m *SceneService) ExploreFeed(ctx context.Context, userID uuid.UUID) ([]*model.Scene, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]*model.Scene)
	return s, args.Error(1)
}
func (m *SceneService) DeleteScene(ctx context.Context, sceneID, requesterID uuid.UUID) error {
	args := m.Called(ctx, sceneID, requesterID)
	return args.Error(0)
}
