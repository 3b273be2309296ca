// Package requests decodes batch manifests into node create requests.
//
// A manifest is a list of entries such as
//
//	[
//	  {"type": "dir",  "path": "src/lib"},
//	  {"type": "file", "path": "src/app.js", "content": "console.log(1)"},
//	  {"type": "file", "path": "vendor/x.js", "source": {"type": "http", "url": "https://..."}}
//	]
//
// in JSON or the equivalent YAML.
package requests

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/internal/util"
)

// SourceFactory builds content sources from raw configs. *sources.Registry
// satisfies it.
type SourceFactory interface {
	NewSource(raw []byte) (webedit.ContentSource, error)
}

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (webedit.NodeCreateRequestType, error) {
	var meta struct {
		Type webedit.NodeCreateRequestType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalFileRequest handles file-specific unmarshaling. factory may be nil
// when the entry has no source.
func UnmarshalFileRequest(data []byte, factory SourceFactory) (*webedit.FileCreateRequest, error) {
	var dto FileRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	node, err := convertNodeDTO(dto.NodeRequestDTO)
	if err != nil {
		return nil, err
	}

	req := &webedit.FileCreateRequest{
		NodeRequest: node,
		Content:     util.ValueOrDefault(dto.Content, ""),
		Unique:      util.ValueOrDefault(dto.Unique, false),
	}
	if len(dto.Source) > 0 && string(dto.Source) != "null" {
		if dto.Content != nil {
			return nil, fmt.Errorf("%s: content and source are mutually exclusive", node.Path)
		}
		if factory == nil {
			return nil, fmt.Errorf("%s: sources are not supported here", node.Path)
		}
		src, err := factory.NewSource(dto.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Path, err)
		}
		req.Source = src
	}
	return req, nil
}

// UnmarshalDirRequest handles explicit directory unmarshaling
func UnmarshalDirRequest(data []byte) (*webedit.DirCreateRequest, error) {
	var dto DirRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	node, err := convertNodeDTO(dto.NodeRequestDTO)
	if err != nil {
		return nil, err
	}
	return &webedit.DirCreateRequest{NodeRequest: node}, nil
}

// UnmarshalRequest dispatches on the entry's "type".
func UnmarshalRequest(data []byte, factory SourceFactory) (webedit.NodeRequestor, error) {
	t, err := GetNodeType(data)
	if err != nil {
		return nil, err
	}
	switch t {
	case webedit.FileNodeType:
		return UnmarshalFileRequest(data, factory)
	case webedit.DirNodeType:
		return UnmarshalDirRequest(data)
	default:
		return nil, fmt.Errorf("unknown node type %q", t)
	}
}

// ParseManifest decodes a JSON manifest.
func ParseManifest(data []byte, factory SourceFactory) ([]webedit.NodeRequestor, error) {
	logger := util.GetLogger("Requests.ParseManifest")

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	reqs := make([]webedit.NodeRequestor, 0, len(entries))
	for i, raw := range entries {
		req, err := UnmarshalRequest(raw, factory)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	logger.Debug().Int("entries", len(reqs)).Msg("Parsed manifest")
	return reqs, nil
}

// ParseYAMLManifest decodes a YAML manifest. The document is re-encoded as
// JSON before decoding.
func ParseYAMLManifest(data []byte, factory SourceFactory) ([]webedit.NodeRequestor, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if doc == nil {
		doc = []any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert manifest: %w", err)
	}
	return ParseManifest(raw, factory)
}

// ParseManifestFile picks the decoder from the file extension of name.
func ParseManifestFile(name string, data []byte, factory SourceFactory) ([]webedit.NodeRequestor, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		return ParseYAMLManifest(data, factory)
	case ".json":
		return ParseManifest(data, factory)
	default:
		return nil, fmt.Errorf("unknown manifest extension: %s", name)
	}
}

// convertNodeDTO cleans the path into slash separated segments without empty
// or dot parts.
func convertNodeDTO(dto NodeRequestDTO) (webedit.NodeRequest, error) {
	segs, err := SplitPath(dto.Path)
	if err != nil {
		return webedit.NodeRequest{}, err
	}
	return webedit.NodeRequest{Path: strings.Join(segs, "/"), Type: dto.Type}, nil
}

// SplitPath breaks a slash separated workspace path into its segments.
// Leading and trailing slashes are ignored; "." and ".." are rejected.
func SplitPath(p string) ([]string, error) {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		s = strings.TrimSpace(s)
		switch s {
		case "":
			continue
		case ".", "..":
			return nil, fmt.Errorf("path %q: relative segments are not allowed", p)
		}
		segs = append(segs, s)
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	return segs, nil
}
