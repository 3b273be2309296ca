package webedit

import "context"

// KVStore is the blocking key-value medium snapshots are written to.
// Get reports ok=false, with a nil error, when key has never been set.
type KVStore interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
}

// BufferEditor is the text-editing widget. It holds one buffer per open
// file, keyed by file id, and never sees the workspace tree.
type BufferEditor interface {
	// OpenBuffer creates or replaces the buffer for id.
	OpenBuffer(id, name, content, languageHint string)
	// BufferValue returns the current text of the buffer for id.
	BufferValue(id string) (string, bool)
	CloseBuffer(id string)
	// OnContentChanged registers fn to run after every edit of buffer id.
	OnContentChanged(id string, fn func(content string))
}

// Upload is a named piece of text produced by a [ContentSource].
type Upload struct {
	Name    string
	Content string
}

// ContentSource fetches a single upload, e.g. from a local file or a URL.
type ContentSource interface {
	Fetch(ctx context.Context) (*Upload, error)
}

// SourceProvider builds [ContentSource] values of one type from their raw
// JSON config. Implementations own any shared resources such as clients.
type SourceProvider interface {
	NewSource(raw []byte) (ContentSource, error)
}
