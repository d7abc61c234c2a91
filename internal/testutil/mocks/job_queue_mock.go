package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueImport(ctx context.Context, rows [][]string) (string, error) {
	args := m.Called(ctx, rows)
	return args.String(0), args.Error(1)
}

func (m *MockJobQueue) Status(id string) (models.ImportJob, bool) {
	args := m.Called(id)
	return args.Get(0).(models.ImportJob), args.Bool(1)
}
