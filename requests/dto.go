package requests

import (
	"encoding/json"

	"github.com/brettbedarf/webedit"
)

// NodeRequestDTO is the wire form of [webedit.NodeRequest]
type NodeRequestDTO struct {
	Path string                        `json:"path"`
	Type webedit.NodeCreateRequestType `json:"type"`
}

// FileRequestDTO is the wire form of [webedit.FileCreateRequest]
type FileRequestDTO struct {
	NodeRequestDTO
	Content *string `json:"content,omitempty"` // Inline text (Default empty)
	Unique  *bool   `json:"unique,omitempty"`  // Pick a free name on collision (Default false)
	// Source is passed through to the source registry untouched.
	//
	// Fields depend on its "type" value, ex. for type="http" (see [sources.HTTPSource]):
	//
	//	URL     string            `json:"url"`
	//	Name    string            `json:"name,omitempty"`
	//	Headers map\[string\]string `json:"headers,omitempty"`
	Source json.RawMessage `json:"source,omitempty"`
}

type DirRequestDTO struct {
	NodeRequestDTO
}
