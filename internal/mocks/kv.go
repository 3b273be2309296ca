package mocks

import (
	"github.com/brettbedarf/webedit"
	"github.com/stretchr/testify/mock"
)

// MockKVStore implements webedit.KVStore for testing across packages
type MockKVStore struct {
	mock.Mock
}

func (m *MockKVStore) Get(key string) ([]byte, bool, error) {
	args := m.Called(key)

	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockKVStore) Set(key string, data []byte) error {
	args := m.Called(key, data)

	// Handle function return types (for tests inspecting the payload)
	if fn, ok := args.Get(0).(func(string, []byte) error); ok {
		return fn(key, data)
	}
	return args.Error(0)
}

var _ webedit.KVStore = (*MockKVStore)(nil)
