package workspace

import (
	"time"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/internal/util"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultStorageKey is the key snapshots are written under unless
// overridden with [WithKVStore].
const DefaultStorageKey = "codeEditor_data"

type (
	fileTable   = orderedmap.OrderedMap[ID, *File]
	folderTable = orderedmap.OrderedMap[ID, *Folder]
)

// Store is the authoritative tree of files and folders. Every mutating
// operation updates memory, recomputes affected paths, writes a snapshot
// through the configured [webedit.KVStore] and then emits an [Event].
//
// A Store is owned by a single goroutine and is not safe for concurrent use.
// Operations assume their arguments were produced by the same Store.
type Store struct {
	files   *fileTable   // id -> file, insertion order
	folders *folderTable // id -> folder, insertion order
	ids     IDGenerator
	events  *Notifier
	now     func() time.Time

	kv        webedit.KVStore // nil disables persistence
	key       string
	onPersist func(bytes int, err error)
}

// Option configures a Store.
type Option func(*Store)

// WithKVStore enables write-through persistence under key. An empty key
// selects [DefaultStorageKey].
func WithKVStore(kv webedit.KVStore, key string) Option {
	return func(s *Store) {
		s.kv = kv
		if key != "" {
			s.key = key
		}
	}
}

// WithIDGenerator replaces the default [SequenceGenerator].
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPersistObserver registers fn to be told the size of every snapshot
// written, or the error that prevented it.
func WithPersistObserver(fn func(bytes int, err error)) Option {
	return func(s *Store) { s.onPersist = fn }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		files:   orderedmap.New[ID, *File](),
		folders: orderedmap.New[ID, *Folder](),
		ids:     processIDs,
		events:  NewNotifier(),
		now:     time.Now,
		key:     DefaultStorageKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the notifier observers subscribe to.
func (s *Store) Events() *Notifier {
	return s.events
}

// NextID returns the counter value the next created entity will carry.
func (s *Store) NextID() uint64 {
	return s.ids.Peek()
}

/* Creation */

// CreateFile adds a file under parent, or at the root when parent is nil.
// Sibling name uniqueness is not enforced; see [Store.GenerateUniqueFileName].
func (s *Store) CreateFile(name, content string, parent *Folder) *File {
	logger := util.GetLogger("Store.CreateFile")

	now := s.now()
	f := &File{
		node:       node{id: s.ids.Next(), name: name, createdAt: now},
		content:    content,
		modifiedAt: now,
	}
	if parent != nil {
		f.parent = parent.id
		parent.addChild(f.id)
	}
	f.path = s.pathFor(f.parent, name)
	s.files.Set(f.id, f)
	logger.Debug().Str("id", string(f.id)).Str("path", f.path).Msg("Created file")

	s.persist()
	s.events.emit(FileAdded{File: f})
	return f
}

// AddFile is [Store.CreateFile] for content arriving from an external source.
func (s *Store) AddFile(name, content string, parent *Folder) *File {
	return s.CreateFile(name, content, parent)
}

// CreateFolder adds an empty folder under parent, or at the root when parent
// is nil.
func (s *Store) CreateFolder(name string, parent *Folder) *Folder {
	logger := util.GetLogger("Store.CreateFolder")

	f := &Folder{node: node{id: s.ids.Next(), name: name, createdAt: s.now()}}
	if parent != nil {
		f.parent = parent.id
		parent.addChild(f.id)
	}
	f.path = s.pathFor(f.parent, name)
	s.folders.Set(f.id, f)
	logger.Debug().Str("id", string(f.id)).Str("path", f.path).Msg("Created folder")

	s.persist()
	s.events.emit(FolderAdded{Folder: f})
	return f
}

/* Lookups */

func (s *Store) GetFile(id ID) (*File, bool) {
	return s.files.Get(id)
}

func (s *Store) GetFolder(id ID) (*Folder, bool) {
	return s.folders.Get(id)
}

// Get resolves id to either kind.
func (s *Store) Get(id ID) (Entity, bool) {
	if f, ok := s.files.Get(id); ok {
		return f, true
	}
	if f, ok := s.folders.Get(id); ok {
		return f, true
	}
	return nil, false
}

// GetFileByPath returns the first file in storage order with the given path.
func (s *Store) GetFileByPath(path string) (*File, bool) {
	for pair := s.files.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.path == path {
			return pair.Value, true
		}
	}
	return nil, false
}

// GetFolderByPath returns the first folder in storage order with the given path.
func (s *Store) GetFolderByPath(path string) (*Folder, bool) {
	for pair := s.folders.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.path == path {
			return pair.Value, true
		}
	}
	return nil, false
}

// Files returns every file in insertion order.
func (s *Store) Files() []*File {
	out := make([]*File, 0, s.files.Len())
	for pair := s.files.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Folders returns every folder in insertion order.
func (s *Store) Folders() []*Folder {
	out := make([]*Folder, 0, s.folders.Len())
	for pair := s.folders.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func (s *Store) RootFiles() []*File {
	var out []*File
	for pair := s.files.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsRoot() {
			out = append(out, pair.Value)
		}
	}
	return out
}

func (s *Store) RootFolders() []*Folder {
	var out []*Folder
	for pair := s.folders.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsRoot() {
			out = append(out, pair.Value)
		}
	}
	return out
}

// Children resolves folder's child ids in order. For a nil folder the root
// folders are returned followed by the root files.
func (s *Store) Children(folder *Folder) []Entity {
	if folder == nil {
		var out []Entity
		for _, f := range s.RootFolders() {
			out = append(out, f)
		}
		for _, f := range s.RootFiles() {
			out = append(out, f)
		}
		return out
	}
	out := make([]Entity, 0, len(folder.children))
	for _, id := range folder.children {
		if e, ok := s.Get(id); ok {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Len() (files, folders int) {
	return s.files.Len(), s.folders.Len()
}

/* Removal */

// RemoveFile detaches f from its parent and deletes it.
func (s *Store) RemoveFile(f *File) {
	logger := util.GetLogger("Store.RemoveFile")

	s.detach(f.parent, f.id)
	s.files.Delete(f.id)
	logger.Debug().Str("id", string(f.id)).Str("path", f.path).Msg("Removed file")

	s.persist()
	s.events.emit(FileRemoved{File: f})
}

// RemoveFolder removes every descendant, children first, then the folder.
func (s *Store) RemoveFolder(f *Folder) {
	logger := util.GetLogger("Store.RemoveFolder")

	for _, id := range f.Children() {
		if child, ok := s.files.Get(id); ok {
			s.RemoveFile(child)
		} else if sub, ok := s.folders.Get(id); ok {
			s.RemoveFolder(sub)
		}
	}

	s.detach(f.parent, f.id)
	s.folders.Delete(f.id)
	logger.Debug().Str("id", string(f.id)).Str("path", f.path).Msg("Removed folder")

	s.persist()
	s.events.emit(FolderRemoved{Folder: f})
}

// Clear removes everything. The id counter keeps its value so ids handed
// out earlier are never reissued.
func (s *Store) Clear() {
	logger := util.GetLogger("Store.Clear")

	s.files = orderedmap.New[ID, *File]()
	s.folders = orderedmap.New[ID, *Folder]()
	logger.Info().Msg("Cleared workspace")

	s.persist()
	s.events.emit(DataCleared{})
}

/* Rename and move */

// RenameFile does not check for collisions.
func (s *Store) RenameFile(f *File, newName string) *File {
	logger := util.GetLogger("Store.RenameFile")

	oldName := f.name
	f.name = newName
	f.modifiedAt = s.now()
	f.path = s.pathFor(f.parent, newName)
	logger.Debug().Str("id", string(f.id)).Str("old", oldName).Str("path", f.path).Msg("Renamed file")

	s.persist()
	s.events.emit(FileRenamed{File: f, OldName: oldName})
	return f
}

// RenameFolder renames f and recomputes the path of every descendant.
func (s *Store) RenameFolder(f *Folder, newName string) *Folder {
	logger := util.GetLogger("Store.RenameFolder")

	oldName := f.name
	f.name = newName
	s.refreshPaths(f)
	logger.Debug().Str("id", string(f.id)).Str("old", oldName).Str("path", f.path).Msg("Renamed folder")

	s.persist()
	s.events.emit(FolderRenamed{Folder: f, OldName: oldName})
	return f
}

// MoveFile reattaches f under target, or at the root when target is nil.
func (s *Store) MoveFile(f *File, target *Folder) *File {
	logger := util.GetLogger("Store.MoveFile")

	s.detach(f.parent, f.id)
	f.parent = s.attach(target, f.id)
	f.path = s.pathFor(f.parent, f.name)
	logger.Debug().Str("id", string(f.id)).Str("path", f.path).Msg("Moved file")

	s.persist()
	s.events.emit(FileMoved{File: f, Target: target})
	return f
}

// MoveFolder reattaches f under target, or at the root when target is nil,
// and recomputes descendant paths. Moving a folder into itself or one of its
// descendants fails with [ErrMoveIntoDescendant] and changes nothing.
func (s *Store) MoveFolder(f *Folder, target *Folder) (*Folder, error) {
	logger := util.GetLogger("Store.MoveFolder")

	if target != nil && s.IsWithin(target, f) {
		logger.Warn().Str("id", string(f.id)).Str("target", string(target.id)).Msg("Refusing to move folder into its own subtree")
		return nil, ErrMoveIntoDescendant
	}

	s.detach(f.parent, f.id)
	f.parent = s.attach(target, f.id)
	s.refreshPaths(f)
	logger.Debug().Str("id", string(f.id)).Str("path", f.path).Msg("Moved folder")

	s.persist()
	s.events.emit(FolderMoved{Folder: f, Target: target})
	return f, nil
}

/* Content */

// UpdateFileContent replaces the content and flags the file as modified.
func (s *Store) UpdateFileContent(f *File, content string) *File {
	logger := util.GetLogger("Store.UpdateFileContent")

	f.content = content
	f.modifiedAt = s.now()
	f.isModified = true
	logger.Trace().Str("id", string(f.id)).Int("size", len(content)).Msg("Updated content")

	s.persist()
	s.events.emit(FileContentChanged{File: f})
	return f
}

// MarkFileAsSaved clears the modified flag. It is safe to call repeatedly.
func (s *Store) MarkFileAsSaved(f *File) {
	f.isModified = false

	s.persist()
	s.events.emit(FileSaved{File: f})
}

/* tree bookkeeping */

func (s *Store) detach(parent ID, child ID) {
	if parent == "" {
		return
	}
	if p, ok := s.folders.Get(parent); ok {
		p.removeChild(child)
	}
}

// attach appends child to target and returns the new parent id.
func (s *Store) attach(target *Folder, child ID) ID {
	if target == nil {
		return ""
	}
	target.addChild(child)
	return target.id
}
