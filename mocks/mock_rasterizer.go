package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"creativecheck/internal/port"
)

// MockRasterizer is a mock implementation of port.Rasterizer.
type MockRasterizer struct {
	mock.Mock
}

func (m *MockRasterizer) Open(ctx context.Context, data []byte) (port.RasterDocument, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.RasterDocument), args.Error(1)
}

func (m *MockRasterizer) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockRasterDocument is a mock implementation of port.RasterDocument.
type MockRasterDocument struct {
	mock.Mock
}

func (m *MockRasterDocument) PageCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockRasterDocument) RenderPNG(page int) ([]byte, error) {
	args := m.Called(page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRasterDocument) Close() error {
	args := m.Called()
	return args.Error(0)
}
