package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"creativecheck/internal/port"
)

// MockVisionClient is a mock implementation of port.VisionClient.
type MockVisionClient struct {
	mock.Mock
}

func (m *MockVisionClient) Analyze(ctx context.Context, req port.VisionRequest) (*port.VisionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.VisionResponse), args.Error(1)
}
