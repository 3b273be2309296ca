package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/internal/util"
	"github.com/google/uuid"
)

// FileStore keeps each key in its own file under dir. Writes go to a
// uniquely named temp file first and are renamed into place, so a reader
// never observes a partial blob.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) pathOf(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	p, err := s.pathOf(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileStore) Set(key string, data []byte) error {
	logger := util.GetLogger("FileStore.Set")

	p, err := s.pathOf(key)
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, "."+key+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn().Err(rmErr).Str("tmp", tmp).Msg("Failed to remove temp file")
		}
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	logger.Trace().Str("path", p).Int("bytes", len(data)).Msg("Wrote blob")
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *FileStore) Delete(key string) error {
	p, err := s.pathOf(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var _ webedit.KVStore = (*FileStore)(nil)
