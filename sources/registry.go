// Package sources turns raw JSON source configs into [webedit.ContentSource]
// values through a registry of providers keyed by the config's "type".
package sources

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/internal/util"
)

// Registry maps source types to providers. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]webedit.SourceProvider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]webedit.SourceProvider{}}
}

// Register ties a provider to a "type" key. The first registration for a
// type wins; later ones are ignored.
func (r *Registry) Register(sourceType string, p webedit.SourceProvider) {
	logger := util.GetLogger("Registry.Register")

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[sourceType]; exists {
		logger.Warn().Str("type", sourceType).Msg("Provider already registered")
		return
	}
	r.providers[sourceType] = p
}

func (r *Registry) GetProvider(sourceType string) (webedit.SourceProvider, error) {
	r.mu.RLock()
	p, ok := r.providers[sourceType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no provider for %q", sourceType)
	}
	return p, nil
}

// Types returns the registered type keys.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for k := range r.providers {
		out = append(out, k)
	}
	return out
}

// NewSource picks the provider named by raw's "type" field and builds a
// source from the same bytes. Provider errors are returned unwrapped.
func (r *Registry) NewSource(raw []byte) (webedit.ContentSource, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	if meta.Type == "" {
		return nil, fmt.Errorf("source config has no type")
	}
	p, err := r.GetProvider(meta.Type)
	if err != nil {
		return nil, err
	}
	return p.NewSource(raw)
}
