// Package shell ties a workspace store to its views, the editor and content
// sources, and layers the interactive create, rename and move flows on top.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/config"
	"github.com/brettbedarf/webedit/editor"
	"github.com/brettbedarf/webedit/internal/util"
	"github.com/brettbedarf/webedit/kv"
	"github.com/brettbedarf/webedit/requests"
	"github.com/brettbedarf/webedit/sources"
	"github.com/brettbedarf/webedit/view"
	"github.com/brettbedarf/webedit/workspace"
)

var (
	ErrInvalidName = errors.New("invalid name")
	ErrNameTaken   = errors.New("name already taken")
	ErrNotFound    = errors.New("not found")
)

// Shell owns one workspace session. Like the store, it is driven from a
// single goroutine.
type Shell struct {
	cfg     *config.Config
	kv      webedit.KVStore
	store   *workspace.Store
	editor  webedit.BufferEditor
	tabs    *view.Tabs
	tree    *view.Tree
	sources *sources.Registry
}

type options struct {
	kv        webedit.KVStore
	editor    webedit.BufferEditor
	sources   *sources.Registry
	storeOpts []workspace.Option
	skipLoad  bool
}

// Option customizes [New].
type Option func(*options)

// WithKVStore uses kv instead of the backend named by the config.
func WithKVStore(backend webedit.KVStore) Option {
	return func(o *options) { o.kv = backend }
}

// WithEditor replaces the headless [editor.Buffers].
func WithEditor(ed webedit.BufferEditor) Option {
	return func(o *options) { o.editor = ed }
}

// WithSources replaces the registry of built-in providers.
func WithSources(r *sources.Registry) Option {
	return func(o *options) { o.sources = r }
}

// WithStoreOptions passes extra options through to [workspace.NewStore].
func WithStoreOptions(opts ...workspace.Option) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, opts...) }
}

// WithoutLoad starts from an empty workspace even if a snapshot is stored.
func WithoutLoad() Option {
	return func(o *options) { o.skipLoad = true }
}

// New builds a shell from cfg and restores the stored snapshot, if any.
func New(cfg *config.Config, opts ...Option) (*Shell, error) {
	logger := util.GetLogger("Shell.New")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.kv
	if backend == nil {
		var err error
		if backend, err = kv.Open(cfg.StorageBackend, cfg.DataDir); err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}
	if o.editor == nil {
		o.editor = editor.NewBuffers()
	}
	if o.sources == nil {
		o.sources = sources.NewDefaultRegistry()
	}

	storeOpts := []workspace.Option{
		workspace.WithKVStore(backend, cfg.StorageKey),
		workspace.WithIDGenerator(newIDGenerator(cfg.IDStrategy)),
	}
	ws := workspace.NewStore(append(storeOpts, o.storeOpts...)...)

	tabs := view.NewTabs(ws, o.editor)
	s := &Shell{
		cfg:     cfg,
		kv:      backend,
		store:   ws,
		editor:  o.editor,
		tabs:    tabs,
		tree:    view.NewTree(ws, view.WithModified(tabs.IsModified)),
		sources: o.sources,
	}
	if !o.skipLoad {
		loaded := ws.Load()
		files, folders := ws.Len()
		logger.Debug().Bool("loaded", loaded).Int("files", files).Int("folders", folders).Msg("Workspace ready")
	}
	return s, nil
}

func newIDGenerator(strategy string) workspace.IDGenerator {
	if strategy == config.IDStrategyUUID {
		return workspace.NewUUIDGenerator()
	}
	return workspace.SharedSequenceGenerator()
}

// Close detaches the views from the store.
func (s *Shell) Close() {
	s.tabs.Detach()
	s.tree.Detach()
}

func (s *Shell) Config() *config.Config       { return s.cfg }
func (s *Shell) KV() webedit.KVStore          { return s.kv }
func (s *Shell) Store() *workspace.Store      { return s.store }
func (s *Shell) Editor() webedit.BufferEditor { return s.editor }
func (s *Shell) Tabs() *view.Tabs             { return s.tabs }
func (s *Shell) Tree() *view.Tree             { return s.tree }
func (s *Shell) Sources() *sources.Registry   { return s.sources }

/* Lookups */

// ResolveFolder finds a folder by path. "" and "/" name the root, which is
// returned as a nil folder.
func (s *Shell) ResolveFolder(p string) (*workspace.Folder, error) {
	if p == "" || p == "/" {
		return nil, nil
	}
	segs, err := requests.SplitPath(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	var cur *workspace.Folder
	for _, name := range segs {
		next, ok := s.store.FindFolder(name, cur)
		if !ok {
			return nil, fmt.Errorf("folder %s: %w", p, ErrNotFound)
		}
		cur = next
	}
	return cur, nil
}

// ResolveFile finds a file by path.
func (s *Shell) ResolveFile(p string) (*workspace.File, error) {
	segs, err := requests.SplitPath(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	parent, err := s.walk(segs[:len(segs)-1])
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", p, ErrNotFound)
	}
	f, ok := s.store.FindFile(segs[len(segs)-1], parent)
	if !ok {
		return nil, fmt.Errorf("file %s: %w", p, ErrNotFound)
	}
	return f, nil
}

// Resolve finds a folder or, failing that, a file by path.
func (s *Shell) Resolve(p string) (workspace.Entity, error) {
	if f, err := s.ResolveFolder(p); err == nil {
		if f == nil {
			return nil, fmt.Errorf("root: %w", ErrNotFound)
		}
		return f, nil
	}
	return s.ResolveFile(p)
}

func (s *Shell) walk(segs []string) (*workspace.Folder, error) {
	var cur *workspace.Folder
	for _, name := range segs {
		next, ok := s.store.FindFolder(name, cur)
		if !ok {
			return nil, ErrNotFound
		}
		cur = next
	}
	return cur, nil
}

// EnsureFolderPath walks p from the root creating every missing folder, like
// mkdir -p, and returns the leaf along with how many folders were created.
func (s *Shell) EnsureFolderPath(p string) (*workspace.Folder, int, error) {
	logger := util.GetLogger("Shell.EnsureFolderPath")

	segs, err := requests.SplitPath(p)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	for _, name := range segs {
		if !workspace.ValidFolderName(name) {
			return nil, 0, fmt.Errorf("folder %q: %w", name, ErrInvalidName)
		}
	}

	var cur *workspace.Folder
	created := 0
	for _, name := range segs {
		if next, ok := s.store.FindFolder(name, cur); ok {
			cur = next
			continue
		}
		cur = s.store.CreateFolder(name, cur)
		created++
	}
	if created > 0 {
		logger.Info().Str("path", p).Msg(fmt.Sprintf("Created %d new folder(s)", created))
	}
	return cur, created, nil
}

/* Interactive flows */

// NewFile creates an empty file after checking its name against the allowed
// extensions and its siblings, then opens it in a tab.
func (s *Shell) NewFile(name string, parent *workspace.Folder) (*workspace.File, error) {
	if !workspace.ValidFileName(name, s.cfg.AllowedExtensions) {
		return nil, fmt.Errorf("file %q: %w", name, ErrInvalidName)
	}
	if s.store.FileNameExists(name, parent) {
		return nil, fmt.Errorf("file %q: %w", name, ErrNameTaken)
	}
	f := s.store.CreateFile(name, "", parent)
	s.OpenFile(f)
	return f, nil
}

// NewFolder creates a folder and expands its parent in the tree.
func (s *Shell) NewFolder(name string, parent *workspace.Folder) (*workspace.Folder, error) {
	if !workspace.ValidFolderName(name) {
		return nil, fmt.Errorf("folder %q: %w", name, ErrInvalidName)
	}
	if s.store.FolderNameExists(name, parent) {
		return nil, fmt.Errorf("folder %q: %w", name, ErrNameTaken)
	}
	f := s.store.CreateFolder(name, parent)
	if parent != nil {
		s.tree.Expand(parent.ID())
	}
	return f, nil
}

// RenameFile renames f unless newName is unchanged. Open tabs follow via
// the store's rename event.
func (s *Shell) RenameFile(f *workspace.File, newName string) error {
	if newName == f.Name() {
		return nil
	}
	if !workspace.ValidFileName(newName, s.cfg.AllowedExtensions) {
		return fmt.Errorf("file %q: %w", newName, ErrInvalidName)
	}
	parent := s.parentOf(f)
	if s.store.FileNameExists(newName, parent) {
		return fmt.Errorf("file %q: %w", newName, ErrNameTaken)
	}
	s.store.RenameFile(f, newName)
	return nil
}

func (s *Shell) RenameFolder(f *workspace.Folder, newName string) error {
	if newName == f.Name() {
		return nil
	}
	if !workspace.ValidFolderName(newName) {
		return fmt.Errorf("folder %q: %w", newName, ErrInvalidName)
	}
	if s.store.FolderNameExists(newName, s.parentOf(f)) {
		return fmt.Errorf("folder %q: %w", newName, ErrNameTaken)
	}
	s.store.RenameFolder(f, newName)
	return nil
}

// MoveFile moves f into target, or the root when target is nil, refusing
// to shadow a sibling of the same name.
func (s *Shell) MoveFile(f *workspace.File, target *workspace.Folder) error {
	if sameFolder(s.parentOf(f), target) {
		return nil
	}
	if s.store.FileNameExists(f.Name(), target) {
		return fmt.Errorf("file %q: %w", f.Name(), ErrNameTaken)
	}
	s.store.MoveFile(f, target)
	return nil
}

// MoveFolder moves f into target, or the root when target is nil.
func (s *Shell) MoveFolder(f *workspace.Folder, target *workspace.Folder) error {
	if sameFolder(s.parentOf(f), target) {
		return nil
	}
	if target != nil && s.store.IsWithin(target, f) {
		return fmt.Errorf("folder %q: %w", f.Name(), workspace.ErrMoveIntoDescendant)
	}
	if s.store.FolderNameExists(f.Name(), target) {
		return fmt.Errorf("folder %q: %w", f.Name(), ErrNameTaken)
	}
	_, err := s.store.MoveFolder(f, target)
	return err
}

// Remove deletes a file or a folder with everything under it.
func (s *Shell) Remove(e workspace.Entity) {
	switch v := e.(type) {
	case *workspace.File:
		s.store.RemoveFile(v)
	case *workspace.Folder:
		s.store.RemoveFolder(v)
	}
}

// OpenFile reveals f in the tree and shows it in a tab.
func (s *Shell) OpenFile(f *workspace.File) *view.Tab {
	s.tree.Focus(f)
	return s.tabs.Open(f)
}

// CloseFile closes the tab for id. The tree then follows the newly active
// tab, or drops its selection when no tab is left.
func (s *Shell) CloseFile(id workspace.ID) bool {
	if !s.tabs.Close(id) {
		return false
	}
	if tab, ok := s.tabs.Active(); ok {
		if f, ok := s.store.GetFile(tab.ID()); ok {
			s.tree.Focus(f)
			return true
		}
	}
	s.tree.ClearSelection()
	return true
}

// Upload adds text under a free name derived from up.Name and opens it.
func (s *Shell) Upload(up webedit.Upload, parent *workspace.Folder) (*workspace.File, error) {
	if !plainName(up.Name) {
		return nil, fmt.Errorf("upload %q: %w", up.Name, ErrInvalidName)
	}
	name := s.store.GenerateUniqueFileName(up.Name, parent)
	f := s.store.AddFile(name, up.Content, parent)
	s.OpenFile(f)
	return f, nil
}

func (s *Shell) parentOf(e workspace.Entity) *workspace.Folder {
	if e.IsRoot() {
		return nil
	}
	f, _ := s.store.GetFolder(e.Parent())
	return f
}

// plainName accepts any non-blank name without path separators. Uploads and
// manifests are not limited to the editable extensions.
func plainName(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}

func sameFolder(a, b *workspace.Folder) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
}
