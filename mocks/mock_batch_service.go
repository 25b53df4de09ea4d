package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"creativecheck/internal/domain"
	"creativecheck/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Run(ctx context.Context, input service.RunInput) (*domain.RunInfo, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunInfo), args.Error(1)
}

func (m *MockBatchService) Get(ctx context.Context, id uuid.UUID) (*domain.RunInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunInfo), args.Error(1)
}

func (m *MockBatchService) Formats() service.FormatsInfo {
	args := m.Called()
	return args.Get(0).(service.FormatsInfo)
}
