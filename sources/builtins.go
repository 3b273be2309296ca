package sources

import (
	"encoding/json"
	"strings"

	"github.com/brettbedarf/webedit"
)

type BuiltInSourceType = string

const (
	FileSourceType BuiltInSourceType = "file"
	HTTPSourceType BuiltInSourceType = "http"
)

// RegisterBuiltins registers all built-in providers by default
// or only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, types ...BuiltInSourceType) {
	if len(types) == 0 {
		types = append(types, FileSourceType, HTTPSourceType)
	}

	for _, key := range types {
		switch key {
		case FileSourceType:
			RegisterFile(r)
		case HTTPSourceType:
			RegisterHTTP(r)
		}
	}
}

// NewDefaultRegistry returns a registry with every built-in provider.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// Resolve builds a source from a command-line style argument: http(s) URLs
// use the http provider, anything else is a local path.
func Resolve(r *Registry, arg string) (webedit.ContentSource, error) {
	var raw []byte
	var err error
	lower := strings.ToLower(strings.TrimSpace(arg))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		raw, err = json.Marshal(HTTPSource{Type: HTTPSourceType, URL: arg})
	} else {
		raw, err = json.Marshal(FileSource{Type: FileSourceType, Path: arg})
	}
	if err != nil {
		return nil, err
	}
	return r.NewSource(raw)
}
