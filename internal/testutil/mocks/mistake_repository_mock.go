package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/edatlas/edatlas/internal/models"
)

// MockMistakeRepository is a mock implementation of repository.MistakeRepository
type MockMistakeRepository struct {
	mock.Mock
}

func (m *MockMistakeRepository) Load(ctx context.Context) ([]models.Mistake, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mistake), args.Error(1)
}

func (m *MockMistakeRepository) Save(ctx context.Context, mistakes []models.Mistake) error {
	args := m.Called(ctx, mistakes)
	return args.Error(0)
}

func (m *MockMistakeRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
