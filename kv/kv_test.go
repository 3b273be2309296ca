package kv

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/brettbedarf/webedit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]webedit.KVStore {
	t.Helper()
	fstore, err := NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return map[string]webedit.KVStore{
		"memory": NewMemory(),
		"file":   fstore,
	}
}

func TestKVStore_Contract(t *testing.T) {
	t.Parallel()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, ok, err := store.Get("codeEditor_data")
			require.NoError(t, err)
			assert.False(t, ok, "unset key reports ok=false")

			require.NoError(t, store.Set("codeEditor_data", []byte(`{"a":1}`)))
			got, ok, err := store.Get("codeEditor_data")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"a":1}`, string(got))

			require.NoError(t, store.Set("codeEditor_data", []byte(`{}`)))
			got, _, err = store.Get("codeEditor_data")
			require.NoError(t, err)
			assert.Equal(t, `{}`, string(got), "set overwrites")
		})
	}
}

func TestMemory_CopiesData(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set("k", buf))
	buf[0] = 'z'

	got, _, _ := m.Get("k")
	assert.Equal(t, "abc", string(got))
	got[1] = 'z'
	again, _, _ := m.Get("k")
	assert.Equal(t, "abc", string(again))

	m.Delete("k")
	assert.Zero(t, m.Len())
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Set(string(rune('a'+i)), []byte{byte(i)})
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, m.Len())
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, s.Set("blob", []byte("data")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "blob.json", entries[0].Name())

	require.NoError(t, s.Delete("blob"))
	require.NoError(t, s.Delete("blob"), "deleting twice is fine")
	_, ok, err := s.Get("blob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_RejectsBadKeys(t *testing.T) {
	t.Parallel()

	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", ".hidden", ".."} {
		assert.Error(t, s.Set(key, nil), key)
		_, _, err := s.Get(key)
		assert.Error(t, err, key)
	}
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	t.Parallel()

	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	m, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, m)

	f, err := Open("file", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, f)

	_, err = Open("s3", "")
	assert.Error(t, err)
}
