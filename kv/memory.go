package kv

import (
	"bytes"

	"github.com/brettbedarf/webedit"
	"github.com/puzpuzpuz/xsync/v4"
)

// Memory keeps blobs in process memory. Safe for concurrent use.
type Memory struct {
	data *xsync.Map[string, []byte]
}

func NewMemory() *Memory {
	return &Memory{data: xsync.NewMap[string, []byte]()}
}

// Get returns a copy of the stored blob.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	v, ok := m.data.Load(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// Set stores a copy of data.
func (m *Memory) Set(key string, data []byte) error {
	m.data.Store(key, bytes.Clone(data))
	return nil
}

// Delete removes key. Missing keys are ignored.
func (m *Memory) Delete(key string) {
	m.data.Delete(key)
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return m.data.Size()
}

var _ webedit.KVStore = (*Memory)(nil)
