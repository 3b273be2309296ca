package mocks

import (
	"context"

	"github.com/brettbedarf/webedit"
	"github.com/stretchr/testify/mock"
)

// MockContentSource implements webedit.ContentSource for testing across packages
type MockContentSource struct {
	mock.Mock
}

func (m *MockContentSource) Fetch(ctx context.Context) (*webedit.Upload, error) {
	args := m.Called(ctx)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(context.Context) *webedit.Upload); ok {
		return fn(ctx), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webedit.Upload), args.Error(1)
}

var _ webedit.ContentSource = (*MockContentSource)(nil)

// MockSourceProvider implements webedit.SourceProvider for testing across packages
type MockSourceProvider struct {
	mock.Mock
}

func (m *MockSourceProvider) NewSource(raw []byte) (webedit.ContentSource, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(webedit.ContentSource), args.Error(1)
}

var _ webedit.SourceProvider = (*MockSourceProvider)(nil)
