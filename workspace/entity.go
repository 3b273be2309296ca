package workspace

import (
	"slices"
	"time"
)

// Kind distinguishes files from folders. The values double as the "type"
// field of persisted records.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Entity is the read-only view shared by files and folders.
type Entity interface {
	ID() ID
	Name() string
	Path() string
	Parent() ID
	IsRoot() bool
	CreatedAt() time.Time
	Kind() Kind
}

// node holds the fields common to files and folders. Fields are only
// mutated by the Store.
type node struct {
	id        ID
	name      string
	path      string // derived from ancestor names; see Store.refreshPaths
	parent    ID     // empty at the root
	createdAt time.Time
}

func (n *node) ID() ID               { return n.id }
func (n *node) Name() string         { return n.name }
func (n *node) Path() string         { return n.path }
func (n *node) Parent() ID           { return n.parent }
func (n *node) IsRoot() bool         { return n.parent == "" }
func (n *node) CreatedAt() time.Time { return n.createdAt }

// File is a text document in the workspace.
type File struct {
	node
	content    string
	modifiedAt time.Time
	isModified bool // content differs from the last saved state
}

func (f *File) Kind() Kind            { return KindFile }
func (f *File) Content() string       { return f.content }
func (f *File) ModifiedAt() time.Time { return f.modifiedAt }
func (f *File) IsModified() bool      { return f.isModified }

// Size returns the content length in bytes.
func (f *File) Size() int { return len(f.content) }

// Folder groups files and folders. Children keep insertion order.
type Folder struct {
	node
	children []ID
}

func (f *Folder) Kind() Kind { return KindFolder }

// Children returns a copy of the ordered child ids.
func (f *Folder) Children() []ID { return slices.Clone(f.children) }

func (f *Folder) addChild(id ID) {
	f.children = append(f.children, id)
}

func (f *Folder) removeChild(id ID) {
	if i := slices.Index(f.children, id); i >= 0 {
		f.children = slices.Delete(f.children, i, i+1)
	}
}
