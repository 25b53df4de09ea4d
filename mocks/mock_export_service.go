package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"creativecheck/internal/export"
	"creativecheck/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Render(ctx context.Context, runID uuid.UUID, format export.Format) (*service.ExportFile, error) {
	args := m.Called(ctx, runID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockExportService) Publish(ctx context.Context, runID uuid.UUID, format export.Format) (*service.PublishResult, error) {
	args := m.Called(ctx, runID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishResult), args.Error(1)
}
