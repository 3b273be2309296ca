package webedit

// NodeRequestor is implemented by all node request types
type NodeRequestor interface {
	GetType() NodeCreateRequestType
	GetPath() string
}

// NodeCreateRequestType valid types are FileNodeType "file", DirNodeType "dir"
type NodeCreateRequestType string

const (
	FileNodeType NodeCreateRequestType = "file"
	DirNodeType  NodeCreateRequestType = "dir"
)

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string // slash separated, relative to the workspace root
	Type NodeCreateRequestType
}

func (r *NodeRequest) GetType() NodeCreateRequestType { return r.Type }
func (r *NodeRequest) GetPath() string                { return r.Path }

// FileCreateRequest creates a file, and any missing folders on its path.
// Content comes from Source when one is set.
type FileCreateRequest struct {
	NodeRequest
	Content string
	Source  ContentSource
	// Unique picks a free name instead of failing when the path is taken.
	Unique bool
}

// DirCreateRequest creates every missing folder on its path, like mkdir -p.
type DirCreateRequest struct {
	NodeRequest
}
