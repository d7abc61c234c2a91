package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockOrderRepository is a mock implementation of repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) InsertBatch(ctx context.Context, entries []models.OrderEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockOrderRepository) OrderedCardIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) DeleteByCardID(ctx context.Context, cardID int64) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

func (m *MockOrderRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
