package mocks

import (
	"github.com/brettbedarf/webedit"
	"github.com/stretchr/testify/mock"
)

// MockBufferEditor implements webedit.BufferEditor for testing across packages
type MockBufferEditor struct {
	mock.Mock
}

func (m *MockBufferEditor) OpenBuffer(id, name, content, languageHint string) {
	m.Called(id, name, content, languageHint)
}

func (m *MockBufferEditor) BufferValue(id string) (string, bool) {
	args := m.Called(id)
	return args.String(0), args.Bool(1)
}

func (m *MockBufferEditor) CloseBuffer(id string) {
	m.Called(id)
}

func (m *MockBufferEditor) OnContentChanged(id string, fn func(content string)) {
	m.Called(id, fn)
}

var _ webedit.BufferEditor = (*MockBufferEditor)(nil)
