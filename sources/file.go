package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/brettbedarf/webedit"
)

// FileSource contains local-file source config fields
type FileSource struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Name string `json:"name,omitempty"` // Default is the path's base name
}

// FileProvider builds [FileAdapter] sources.
type FileProvider struct{}

func RegisterFile(r *Registry) {
	r.Register(FileSourceType, &FileProvider{})
}

func (p *FileProvider) NewSource(raw []byte) (webedit.ContentSource, error) {
	var cfg FileSource
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("file source needs a path")
	}
	return &FileAdapter{config: cfg}, nil
}

// FileAdapter reads a local text file in one shot.
type FileAdapter struct {
	config FileSource
}

func (f *FileAdapter) Name() string {
	if f.config.Name != "" {
		return f.config.Name
	}
	return filepath.Base(f.config.Path)
}

func (f *FileAdapter) Fetch(ctx context.Context) (*webedit.Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(f.config.Path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", f.config.Path)
	}
	if info.Size() > MaxFetchBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", f.config.Path, MaxFetchBytes)
	}
	data, err := os.ReadFile(f.config.Path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not a text file", f.config.Path)
	}
	return &webedit.Upload{Name: f.Name(), Content: string(data)}, nil
}
